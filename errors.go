package digest

import (
	"errors"
	"fmt"
)

var (
	// ErrAbstractBase is returned when the abstract root kind is instantiated directly.
	ErrAbstractBase = errors.New("digest: Base is an abstract kind")
	// ErrEmptyInput is returned by the one-shot functions when no data is given.
	ErrEmptyInput = errors.New("digest: no data given")
)

// UnavailableError reports that no provider in the
// chain can furnish the named algorithm.
type UnavailableError struct {
	Algorithm string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("digest: the %s() function is unimplemented on this machine", e.Algorithm)
}

// UnresolvedError reports that a kind has no algorithm descriptor,
// neither its own nor one inherited through its parent chain.
type UnresolvedError struct {
	Kind Kind
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("digest: no algorithm descriptor registered for %s", e.Kind)
}

// UnimplementedError reports an invocation of a primitive
// operation that the concrete kind does not supply.
type UnimplementedError struct {
	Kind Kind
	Op   string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("digest: %s does not implement %s()", e.Kind, e.Op)
}

// DuplicationError reports that an engine's state could not be
// copied into an independent instance.
type DuplicationError struct {
	Algorithm string
	Err       error
}

func (e *DuplicationError) Error() string {
	return fmt.Sprintf("digest: could not initialize copy of digest (%s)", e.Algorithm)
}

func (e *DuplicationError) Unwrap() error {
	return e.Err
}
