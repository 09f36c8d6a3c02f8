// Package mem implements an in-memory store snapshot.
//
// A snapshot can be staged: the changes of the staged child are only applied
// to the parent when the staging function succeeds.
package mem

import (
	"go.dedis.ch/cwcounter/core/store"
	"golang.org/x/xerrors"
)

type item struct {
	value   []byte
	deleted bool
}

// Snapshot is an in-memory implementation of a store snapshot. It saves the
// updates in an internal store and only keeps the updates of the current
// snapshot. When reading, it'll look up by following the parent if the key
// is not found.
//
// - implements store.Snapshot
type Snapshot struct {
	parent store.Readable
	store  map[string]item
}

// NewSnapshot returns a new empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		store: make(map[string]item),
	}
}

// NewOverlay returns an empty snapshot that reads through the parent for the
// keys it has not written.
func NewOverlay(parent store.Readable) *Snapshot {
	snap := NewSnapshot()
	snap.parent = parent

	return snap
}

// Get implements store.Readable. It returns nil if the key is missing or
// was deleted.
func (s *Snapshot) Get(key []byte) ([]byte, error) {
	it, found := s.store[string(key)]
	if found {
		if it.deleted {
			return nil, nil
		}

		return copyBytes(it.value), nil
	}

	if s.parent == nil {
		return nil, nil
	}

	value, err := s.parent.Get(key)
	if err != nil {
		return nil, xerrors.Errorf("parent: %w", err)
	}

	return value, nil
}

// Set implements store.Writable.
func (s *Snapshot) Set(key, value []byte) error {
	s.store[string(key)] = item{value: copyBytes(value)}

	return nil
}

// Delete implements store.Writable. The deletion hides the key of the parent
// until the changes are committed.
func (s *Snapshot) Delete(key []byte) error {
	s.store[string(key)] = item{deleted: true}

	return nil
}

// Len returns the number of keys written or deleted in this snapshot.
func (s *Snapshot) Len() int {
	return len(s.store)
}

// Commit applies the changes of the snapshot to the writable store.
func (s *Snapshot) Commit(w store.Writable) error {
	for key, it := range s.store {
		var err error

		if it.deleted {
			err = w.Delete([]byte(key))
		} else {
			err = w.Set([]byte(key), it.value)
		}

		if err != nil {
			return xerrors.Errorf("failed to apply key %#x: %w", key, err)
		}
	}

	return nil
}

// Stage executes the function on a child of the snapshot. The changes of the
// child are applied only if the function returns without error.
func (s *Snapshot) Stage(fn func(store.Snapshot) error) error {
	return Stage(s, fn)
}

// Stage executes the function on an overlay of the given snapshot and applies
// the changes to it only when the function succeeds. Nothing is written
// otherwise.
func Stage(snap store.Snapshot, fn func(store.Snapshot) error) error {
	child := NewOverlay(snap)

	err := fn(child)
	if err != nil {
		return err
	}

	err = child.Commit(snap)
	if err != nil {
		return xerrors.Errorf("failed to commit: %w", err)
	}

	return nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}

	return append([]byte{}, b...)
}
