// Package version stores the name and the version of a contract in its
// storage so that the host can tell which code initialized a deployment.
package version

import (
	"encoding/json"

	"go.dedis.ch/cwcounter/core/store"
	"golang.org/x/xerrors"
)

// key is the storage key of the version record.
var key = []byte("contract_info")

// ErrNotFound is returned when no version is stored.
var ErrNotFound = xerrors.New("contract version not found")

// Info is the version record of a contract.
type Info struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

// Set writes the version record of a contract.
func Set(snap store.Writable, contract, version string) error {
	data, err := json.Marshal(Info{Contract: contract, Version: version})
	if err != nil {
		return xerrors.Errorf("failed to encode: %v", err)
	}

	err = snap.Set(key, data)
	if err != nil {
		return xerrors.Errorf("failed to write version: %w", err)
	}

	return nil
}

// Get reads the version record of a contract.
func Get(r store.Readable) (Info, error) {
	data, err := r.Get(key)
	if err != nil {
		return Info{}, xerrors.Errorf("failed to read version: %w", err)
	}

	if data == nil {
		return Info{}, ErrNotFound
	}

	var info Info

	err = json.Unmarshal(data, &info)
	if err != nil {
		return Info{}, xerrors.Errorf("failed to decode: %v", err)
	}

	return info, nil
}
