// Package access defines the identities of the callers of a contract.
//
// The host authenticates the caller before the contract is invoked, so an
// identity is an opaque value that is only ever compared.
package access

import (
	"encoding"
	"encoding/json"
	"fmt"

	"golang.org/x/xerrors"
)

// Identity is an abstraction to uniquely identify a caller.
type Identity interface {
	fmt.Stringer
	encoding.TextMarshaler

	// Equal returns true when the other identity is the same.
	Equal(other Identity) bool
}

// Address is the account address of a caller as verified by the host.
//
// - implements access.Identity
type Address struct {
	addr string
}

// NewAddress returns the address of the given textual representation.
func NewAddress(addr string) Address {
	return Address{addr: addr}
}

// Equal implements access.Identity. It returns true if the other identity is an
// address with the same value.
func (a Address) Equal(other Identity) bool {
	switch o := other.(type) {
	case Address:
		return o.addr == a.addr
	case *Address:
		return o != nil && o.addr == a.addr
	default:
		return false
	}
}

// IsEmpty returns true when the address has not been set.
func (a Address) IsEmpty() bool {
	return a.addr == ""
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.addr
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.addr), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	a.addr = string(text)
	return nil
}

// MarshalJSON implements json.Marshaler. An address is encoded as a JSON
// string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.addr)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(data []byte) error {
	var addr string

	err := json.Unmarshal(data, &addr)
	if err != nil {
		return xerrors.Errorf("invalid address: %v", err)
	}

	a.addr = addr

	return nil
}
