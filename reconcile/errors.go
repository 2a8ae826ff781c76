package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when a generation is committed before the
	// first snapshot initialized the store.
	ErrNotInitialized = errors.New("entity store not initialized")
	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("entity store already initialized")
)

// SizeMismatchError means the entity count changed under a fixed roster.
// The connection's sync state cannot recover from it.
type SizeMismatchError struct {
	Want int
	Got  int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("entity count changed: have %d, snapshot carries %d", e.Want, e.Got)
}
