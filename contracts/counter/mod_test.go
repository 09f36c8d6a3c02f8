package counter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/cwcounter/contracts/version"
	"go.dedis.ch/cwcounter/core/access"
	"go.dedis.ch/cwcounter/core/execution"
	"go.dedis.ch/cwcounter/internal/testing/fake"
	"golang.org/x/xerrors"
)

var (
	alice = access.NewAddress("alice")
	bob   = access.NewAddress("bob")
)

func TestHandler_Instantiate(t *testing.T) {
	handler := NewHandler()

	for _, value := range []uint64{0, 1, 42, math.MaxUint64} {
		snap := fake.NewSnapshot()

		res, err := handler.Instantiate(makeContext(snap, alice), InstantiateMsg{Counter: value})
		require.NoError(t, err)
		require.Equal(t, "instantiate", res.GetAttribute(MethodAttr))
		require.Empty(t, res.Data)

		state, err := LoadState(snap)
		require.NoError(t, err)
		require.Equal(t, State{Owner: alice, Counter: value}, state)

		count, err := handler.Query(makeQueryContext(snap), GetCount{})
		require.NoError(t, err)
		require.Equal(t, GetCountResponse{Count: value}, count)
	}
}

func TestHandler_Instantiate_Version(t *testing.T) {
	snap := fake.NewSnapshot()

	_, err := NewHandler().Instantiate(makeContext(snap, alice), InstantiateMsg{})
	require.NoError(t, err)

	info, err := version.Get(snap)
	require.NoError(t, err)
	require.Equal(t, version.Info{Contract: ContractName, Version: ContractVersion}, info)
}

func TestHandler_Instantiate_Failures(t *testing.T) {
	handler := NewHandler()

	_, err := handler.Instantiate(makeContext(fake.NewSnapshot(), access.Address{}), InstantiateMsg{})
	require.EqualError(t, err, "missing sender: invalid input")

	_, err = handler.Instantiate(makeContext(fake.NewBadSnapshot(), alice), InstantiateMsg{})
	require.EqualError(t, err, fake.Err("failed to set version: failed to write version"))

	snap := fake.NewSnapshot()
	snap.ErrWrite = fake.GetError()

	_, err = handler.Instantiate(makeContext(snap, alice), InstantiateMsg{})
	require.True(t, xerrors.Is(err, fake.GetError()))
}

func TestHandler_Execute(t *testing.T) {
	handler := NewHandler()
	handler.cmd = fakeCmd{err: fake.GetError()}

	ctx := makeContext(fake.NewSnapshot(), alice)

	_, err := handler.Execute(ctx, Increment{})
	require.EqualError(t, err, fake.Err("failed to increment"))

	_, err = handler.Execute(ctx, NewReset(1))
	require.EqualError(t, err, fake.Err("failed to reset"))

	_, err = handler.Execute(ctx, nil)
	require.EqualError(t, err, "unexpected execute message <nil>: should not enter")

	_, err = handler.Execute(ctx, fakeExecuteMsg{})
	require.True(t, xerrors.Is(err, ErrShouldNotEnter))

	handler.cmd = fakeCmd{}

	res, err := handler.Execute(ctx, Increment{})
	require.NoError(t, err)
	require.Equal(t, "fake", res.GetAttribute(MethodAttr))
}

func TestHandler_Query(t *testing.T) {
	handler := NewHandler()
	handler.cmd = fakeCmd{err: fake.GetError()}

	ctx := makeQueryContext(fake.NewSnapshot())

	_, err := handler.Query(ctx, GetCount{})
	require.EqualError(t, err, fake.Err("failed to get count"))

	_, err = handler.Query(ctx, fakeQueryMsg{})
	require.True(t, xerrors.Is(err, ErrShouldNotEnter))

	handler.cmd = fakeCmd{}

	res, err := handler.Query(ctx, GetCount{})
	require.NoError(t, err)
	require.Equal(t, GetCountResponse{Count: 7}, res)
}

func TestCommand_Increment(t *testing.T) {
	cmd := counterCommand{Handler: NewHandler()}

	snap := fake.NewSnapshot()

	_, err := cmd.increment(makeContext(snap, alice), Increment{})
	require.True(t, xerrors.Is(err, ErrNotFound))
	require.Equal(t, 0, snap.Len())

	require.NoError(t, NewStateStore(snap).Save(State{Owner: alice, Counter: 0}))

	// Anyone is allowed to increment.
	for i, sender := range []access.Address{alice, bob, access.NewAddress("carol")} {
		res, err := cmd.increment(makeContext(snap, sender), Increment{})
		require.NoError(t, err)
		require.Equal(t, "increment", res.GetAttribute(MethodAttr))
		require.Empty(t, res.Data)

		state, err := LoadState(snap)
		require.NoError(t, err)
		require.Equal(t, State{Owner: alice, Counter: uint64(i + 1)}, state)
	}

	_, err = cmd.increment(makeContext(snap, alice), NewReset(1))
	require.EqualError(t, err, "increment with counter.Reset: should not enter")

	_, err = cmd.increment(makeContext(fake.NewBadSnapshot(), alice), Increment{})
	require.EqualError(t, err, fake.Err("failed to read state"))
}

func TestCommand_Increment_Overflow(t *testing.T) {
	cmd := counterCommand{Handler: NewHandler()}

	snap := fake.NewSnapshot()
	require.NoError(t, NewStateStore(snap).Save(State{Owner: alice, Counter: math.MaxUint64}))

	_, err := cmd.increment(makeContext(snap, alice), Increment{})
	require.Equal(t, ErrOverflow, err)

	state, err := LoadState(snap)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), state.Counter)
}

func TestCommand_Reset(t *testing.T) {
	cmd := counterCommand{Handler: NewHandler()}

	snap := fake.NewSnapshot()

	_, err := cmd.reset(makeContext(snap, alice), NewReset(1))
	require.True(t, xerrors.Is(err, ErrNotFound))

	require.NoError(t, NewStateStore(snap).Save(State{Owner: alice, Counter: 3}))

	res, err := cmd.reset(makeContext(snap, alice), NewReset(10))
	require.NoError(t, err)
	require.Equal(t, "reset", res.GetAttribute(MethodAttr))

	requireState(t, snap, State{Owner: alice, Counter: 10})

	_, err = cmd.reset(makeContext(snap, bob), NewReset(0))
	require.EqualError(t, err, "sender 'bob' is not the owner: unauthorized")
	require.True(t, xerrors.Is(err, ErrUnauthorized))

	requireState(t, snap, State{Owner: alice, Counter: 10})

	// A missing value is rejected whoever the sender is.
	for _, sender := range []access.Address{alice, bob} {
		_, err = cmd.reset(makeContext(snap, sender), Reset{})
		require.EqualError(t, err, "missing value: invalid input")

		requireState(t, snap, State{Owner: alice, Counter: 10})
	}

	_, err = cmd.reset(makeContext(snap, alice), Increment{})
	require.EqualError(t, err, "reset with counter.Increment: should not enter")

	snap.ErrWrite = fake.GetError()

	_, err = cmd.reset(makeContext(snap, alice), NewReset(1))
	require.EqualError(t, err, fake.Err("failed to write state"))
}

func TestCommand_GetCount(t *testing.T) {
	cmd := counterCommand{Handler: NewHandler()}

	snap := fake.NewSnapshot()

	_, err := cmd.getCount(makeQueryContext(snap), GetCount{})
	require.True(t, xerrors.Is(err, ErrNotFound))
	require.Equal(t, 0, snap.Len())

	require.NoError(t, NewStateStore(snap).Save(State{Owner: alice, Counter: 5}))

	for i := 0; i < 3; i++ {
		res, err := cmd.getCount(makeQueryContext(snap), GetCount{})
		require.NoError(t, err)
		require.Equal(t, GetCountResponse{Count: 5}, res)
	}

	_, err = cmd.getCount(makeQueryContext(snap), fakeQueryMsg{})
	require.True(t, xerrors.Is(err, ErrShouldNotEnter))

	_, err = cmd.getCount(makeQueryContext(fake.NewBadSnapshot()), GetCount{})
	require.EqualError(t, err, fake.Err("failed to read state"))
}

// -----------------------------------------------------------------------------
// Utility functions

func makeContext(snap *fake.InMemorySnapshot, sender access.Address) *execution.Context {
	return &execution.Context{
		Storage: snap,
		Env:     execution.Env{ChainID: "test"},
		Info:    execution.Info{Sender: sender},
	}
}

func makeQueryContext(snap *fake.InMemorySnapshot) *execution.QueryContext {
	return &execution.QueryContext{
		Storage: snap,
		Env:     execution.Env{ChainID: "test"},
	}
}

func requireState(t *testing.T, snap *fake.InMemorySnapshot, expected State) {
	state, err := LoadState(snap)
	require.NoError(t, err)
	require.Equal(t, expected, state)
}

type fakeCmd struct {
	err error
}

func (c fakeCmd) increment(ctx *execution.Context, msg ExecuteMsg) (execution.Response, error) {
	return execution.NewResponse().AddAttribute(MethodAttr, "fake"), c.err
}

func (c fakeCmd) reset(ctx *execution.Context, msg ExecuteMsg) (execution.Response, error) {
	return execution.NewResponse().AddAttribute(MethodAttr, "fake"), c.err
}

func (c fakeCmd) getCount(ctx *execution.QueryContext, msg QueryMsg) (GetCountResponse, error) {
	return GetCountResponse{Count: 7}, c.err
}

type fakeExecuteMsg struct{}

func (fakeExecuteMsg) executeVariant() string {
	return "fake"
}

type fakeQueryMsg struct{}

func (fakeQueryMsg) queryVariant() string {
	return "fake"
}
