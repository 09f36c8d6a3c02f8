package counter

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/cwcounter/core/access"
	"go.dedis.ch/cwcounter/internal/testing/fake"
	"golang.org/x/xerrors"
)

func TestStateStore_SaveLoad(t *testing.T) {
	snap := fake.NewSnapshot()
	store := NewStateStore(snap)

	_, err := store.Load()
	require.True(t, xerrors.Is(err, ErrNotFound))

	state := State{Owner: access.NewAddress("alice"), Counter: 42}
	require.NoError(t, store.Save(state))

	data, err := snap.Get(stateKey)
	require.NoError(t, err)
	require.JSONEq(t, `{"owner":"alice","counter":42}`, string(data))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, state, loaded)
}

func TestStateStore_Failures(t *testing.T) {
	store := NewStateStore(fake.NewBadSnapshot())

	_, err := store.Load()
	require.EqualError(t, err, fake.Err("failed to read state"))
	require.True(t, xerrors.Is(err, fake.GetError()))

	err = store.Save(State{})
	require.EqualError(t, err, fake.Err("failed to write state"))

	snap := fake.NewSnapshot()
	snap.Set(stateKey, []byte("{"))

	_, err = LoadState(snap)
	require.EqualError(t, err, "failed to decode state: unexpected end of JSON input")
}

func TestStateStore_Update(t *testing.T) {
	snap := fake.NewSnapshot()
	store := NewStateStore(snap)

	_, err := store.Update(func(s State) (State, error) { return s, nil })
	require.True(t, xerrors.Is(err, ErrNotFound))
	require.Equal(t, 0, snap.Len())

	require.NoError(t, store.Save(State{Owner: access.NewAddress("alice"), Counter: 1}))

	next, err := store.Update(func(s State) (State, error) {
		s.Counter += 10
		return s, nil
	})
	require.NoError(t, err)
	require.Equal(t, uint64(11), next.Counter)

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, next, loaded)

	_, err = store.Update(func(s State) (State, error) {
		s.Counter = 100
		return s, fake.GetError()
	})
	require.Equal(t, fake.GetError(), err)

	loaded, err = store.Load()
	require.NoError(t, err)
	require.Equal(t, uint64(11), loaded.Counter)

	snap.ErrWrite = fake.GetError()

	_, err = store.Update(func(s State) (State, error) { return s, nil })
	require.EqualError(t, err, fake.Err("failed to write state"))
}
