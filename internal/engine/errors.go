package engine

import (
	"strings"

	"github.com/docker/docker/client"
	"github.com/pkg/errors"
)

// ErrNotFound, ErrConflict, ErrUnreachable, and ErrForbidden are the typed
// kinds the dispatcher branches on, independent of which daemon-side string
// produced them. Most daemon errors arrive as plain strings rather than a
// structured type, so classify falls back to substring matching the small
// set of messages the daemon is known to emit for these conditions.
var (
	ErrNotFound    = errors.New("engine: not found")
	ErrConflict    = errors.New("engine: conflict")
	ErrUnreachable = errors.New("engine: daemon unreachable")
	ErrForbidden   = errors.New("engine: forbidden")
)

// substringKinds maps a lowercase substring of a daemon error message to
// the typed kind it indicates, checked in order.
var substringKinds = []struct {
	substr string
	kind   error
}{
	{"no such container", ErrNotFound},
	{"no such image", ErrNotFound},
	{"no such volume", ErrNotFound},
	{"already in use", ErrConflict},
	{"conflict", ErrConflict},
	{"permission denied", ErrForbidden},
	{"cannot connect to the docker daemon", ErrUnreachable},
	{"connection refused", ErrUnreachable},
}

// classify wraps a raw engine error with one of the typed kinds above when
// recognized, keeping the original error text in the wrapped message
// (Unwrap yields the typed kind). An unrecognized error, including nil,
// passes through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if client.IsErrNotFound(err) {
		return errors.Wrap(ErrNotFound, err.Error())
	}
	msg := strings.ToLower(err.Error())
	for _, sk := range substringKinds {
		if strings.Contains(msg, sk.substr) {
			return errors.Wrap(sk.kind, err.Error())
		}
	}
	return err
}
