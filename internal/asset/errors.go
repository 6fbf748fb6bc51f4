package asset

import "fmt"

// LoadError reports a visual that failed to load. It aborts the whole run;
// the failing asset is always named.
type LoadError struct {
	Asset string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("asset %q failed to load: %v", e.Asset, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DecodeError reports a visual that loaded but could not be turned into
// drawable pixels. Terminal for the run, never retried.
type DecodeError struct {
	Asset string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("asset %q could not be decoded: %v", e.Asset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
