// Package fake provides fake implementations for interfaces commonly used in
// the repository.
// The implementations can be configured to return errors when a unit test
// needs to exercise a failure path.
package fake

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

var fakeErr = xerrors.New("fake error")

// GetError returns the fake error.
func GetError() error {
	return fakeErr
}

// Err returns the expected message of an error wrapping the fake error.
func Err(msg string) string {
	return fmt.Sprintf("%s: %v", msg, fakeErr)
}

// NewBufferLogger returns a JSON logger writing to the returned buffer so that
// a test can look for a specific entry.
func NewBufferLogger() (zerolog.Logger, *bytes.Buffer) {
	buffer := new(bytes.Buffer)

	return zerolog.New(buffer), buffer
}
