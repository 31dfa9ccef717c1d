package dispatch

import (
	"context"
	"os"

	"github.com/PetroDE/control/internal/engine"
	"github.com/PetroDE/control/internal/service"
)

// Open drops an interactive shell into a fresh container for unit,
// grounded on functions.py's opencontainer(): any existing container for
// this unit is stopped and removed first, then a new one is created with
// stdin/tty forced open and Open (or /bin/sh as a fallback) as its
// command, and that command is exec'd into it attached to the caller's
// terminal.
func (d *Dispatcher) Open(ctx context.Context, unit *service.Service) error {
	if err := d.stopOne(ctx, unit); err != nil {
		return err
	}

	spec := specFor(unit, d.Opts.Env, d.Opts.EnvFileVals)
	spec.OpenStdin = true
	spec.Tty = true
	if len(unit.Open) > 0 {
		spec.Command = unit.Open
	} else {
		spec.Command = []string{"/bin/sh"}
	}

	logOp("Opening", unit.Name)
	id, err := d.Engine.CreateContainer(ctx, spec)
	if err != nil {
		return err
	}
	if err := d.Engine.StartContainer(ctx, id); err != nil {
		return err
	}

	_, err = d.Engine.Exec(ctx, engine.ExecSpec{
		ContainerID: id,
		Command:     spec.Command,
		Tty:         true,
		AttachStdin: true,
	}, os.Stdout, os.Stderr)
	return err
}
