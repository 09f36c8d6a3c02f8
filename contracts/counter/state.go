package counter

import (
	"encoding/json"

	"go.dedis.ch/cwcounter/core/access"
	"go.dedis.ch/cwcounter/core/store"
	"golang.org/x/xerrors"
)

// stateKey is the storage key of the single state record.
var stateKey = []byte("state")

// State is the persisted record of the contract.
type State struct {
	// Owner is the caller that instantiated the contract. It never changes.
	Owner access.Address `json:"owner"`

	// Counter is the current value of the counter.
	Counter uint64 `json:"counter"`
}

// LoadState reads the state from a readable store. It returns ErrNotFound if
// the contract has not been instantiated.
func LoadState(r store.Readable) (State, error) {
	data, err := r.Get(stateKey)
	if err != nil {
		return State{}, xerrors.Errorf("failed to read state: %w", err)
	}

	if data == nil {
		return State{}, ErrNotFound
	}

	var state State

	err = json.Unmarshal(data, &state)
	if err != nil {
		return State{}, xerrors.Errorf("failed to decode state: %v", err)
	}

	return state, nil
}

// StateStore gives access to the state of the contract within a single
// invocation.
type StateStore struct {
	snap store.Snapshot
}

// NewStateStore returns a state store that operates on the snapshot of the
// current invocation.
func NewStateStore(snap store.Snapshot) StateStore {
	return StateStore{snap: snap}
}

// Load returns the current state.
func (s StateStore) Load() (State, error) {
	return LoadState(s.snap)
}

// Save replaces the whole state record.
func (s StateStore) Save(state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return xerrors.Errorf("failed to encode state: %v", err)
	}

	err = s.snap.Set(stateKey, data)
	if err != nil {
		return xerrors.Errorf("failed to write state: %w", err)
	}

	return nil
}

// Update loads the state, applies the function and saves the result. Nothing
// is written when the function fails, and its error is returned as is.
func (s StateStore) Update(fn func(State) (State, error)) (State, error) {
	state, err := s.Load()
	if err != nil {
		return State{}, err
	}

	next, err := fn(state)
	if err != nil {
		return State{}, err
	}

	err = s.Save(next)
	if err != nil {
		return State{}, err
	}

	return next, nil
}
