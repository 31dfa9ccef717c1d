package dispatch

import (
	"context"
	"errors"

	"github.com/PetroDE/control/internal/engine"
	"github.com/PetroDE/control/internal/project"
)

// ErrUnknownService names a service/group that the resolved project does
// not contain.
var ErrUnknownService = errors.New("dispatch: unknown service")

// ErrBuildFailed is returned when a build step's engine call reports an
// error in its streamed output, mirroring build()/build_prod() returning
// False on an `error` key in the daemon's JSON stream.
var ErrBuildFailed = errors.New("dispatch: build failed")

// ErrEventHookFailed is returned when a prebuild/postbuild hook command
// exits non-zero.
var ErrEventHookFailed = errors.New("dispatch: event hook failed")

// ExitCode maps a Dispatch error to the process exit code cmd/control
// reports: 0 success, 1 general failure, 2 usage/descriptor error or
// engine unreachable, 130 interrupted. No error maps to 3.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, ErrUnknownService), errors.Is(err, project.ErrInvalidDescriptor),
		errors.Is(err, engine.ErrUnreachable):
		return 2
	default:
		return 1
	}
}
