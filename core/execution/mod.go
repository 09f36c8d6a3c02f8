// Package execution defines the context given by the host to a contract for
// each invocation, and the response returned by the contract.
package execution

import (
	"time"

	"go.dedis.ch/cwcounter/core/access"
	"go.dedis.ch/cwcounter/core/store"
)

// Env describes the ledger environment at the time of the invocation.
type Env struct {
	// ChainID is the identifier of the ledger.
	ChainID string

	// Height is the height of the block including the invocation.
	Height uint64

	// Time is the time of the block.
	Time time.Time
}

// Info describes the message being executed.
type Info struct {
	// Sender is the authenticated caller of the invocation.
	Sender access.Address
}

// Context is the context of a state-changing invocation. It is built once per
// call by the host and passed to every operation.
type Context struct {
	Storage store.Snapshot
	Env     Env
	Info    Info
}

// QueryContext is the context of a read-only invocation.
type QueryContext struct {
	Storage store.Readable
	Env     Env
}

// Attribute is a key/value pair reported by the contract for the host
// bookkeeping.
type Attribute struct {
	Key   string
	Value string
}

// Response is the outcome of a successful state-changing invocation.
type Response struct {
	Attributes []Attribute

	// Data is the optional payload returned to the caller.
	Data []byte
}

// NewResponse returns an empty response.
func NewResponse() Response {
	return Response{}
}

// AddAttribute returns the response with the attribute appended.
func (r Response) AddAttribute(key, value string) Response {
	attrs := make([]Attribute, len(r.Attributes), len(r.Attributes)+1)
	copy(attrs, r.Attributes)

	r.Attributes = append(attrs, Attribute{Key: key, Value: value})

	return r
}

// GetAttribute returns the value of the first attribute with the key, or an
// empty string.
func (r Response) GetAttribute(key string) string {
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}

	return ""
}

