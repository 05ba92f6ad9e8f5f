package provider

import "fmt"

// Error is the failure of a remote model invocation: transport errors, API
// errors, or unusable output. It is fatal to the current dispatch or turn and
// is never retried at this layer.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
