package counter

import "golang.org/x/xerrors"

var (
	// ErrNotFound is returned when the state of the contract does not exist,
	// which means the contract has not been instantiated.
	ErrNotFound = xerrors.New("state not found")

	// ErrUnauthorized is returned when the sender is not allowed to perform
	// the transition.
	ErrUnauthorized = xerrors.New("unauthorized")

	// ErrInvalidInput is returned when a message is malformed or is missing a
	// required field.
	ErrInvalidInput = xerrors.New("invalid input")

	// ErrOverflow is returned when the counter cannot be incremented anymore.
	ErrOverflow = xerrors.New("counter overflow")

	// ErrShouldNotEnter is returned when a handler is given a message of
	// another variant. It denotes a dispatch bug and is never expected.
	ErrShouldNotEnter = xerrors.New("should not enter")
)
