package dispatch

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PetroDE/control/internal/engine"
	"github.com/PetroDE/control/internal/service"
)

// Command runs verb as an ad hoc named command against every unit that
// declares it (or a wildcard "*" entry), grounded on functions.py's
// command(): it execs into an already-running container when one exists,
// otherwise it creates, starts, and runs against a throwaway container that
// is stopped and removed afterward.
func (d *Dispatcher) Command(ctx context.Context, units []*service.Service, verb string) error {
	var errs []error
	ran := false
	for _, svc := range units {
		raw, ok := svc.Commands[verb]
		if !ok {
			raw, ok = svc.Commands["*"]
		}
		if !ok {
			continue
		}
		ran = true
		if err := d.runCommand(ctx, svc, verb, raw); err != nil {
			errs = append(errs, fmt.Errorf("command %s on %s: %w", verb, svc.Name, err))
		}
	}
	if !ran {
		return fmt.Errorf("%w: %q", ErrUnknownService, verb)
	}
	return collectErrors(errs)
}

// runCommand runs cmd against svc, grounded on functions.py's command(). If
// svc already has a running container and the caller did not ask for
// --replace, it execs the command straight into that container. Otherwise
// it stands up a disposable placeholder container (command `cat`, stdin
// open) for the duration of the command, tearing it down afterward; if
// svc's own container had to be taken down to make room for the
// placeholder, it is recreated with its normal configuration once the
// command finishes, matching the save/restore the original performs around
// a replace.
func (d *Dispatcher) runCommand(ctx context.Context, svc *service.Service, verb, raw string) error {
	cmdLine := strings.ReplaceAll(raw, "{COMMAND}", verb)
	cmd := strings.Fields(cmdLine)
	if len(cmd) == 0 {
		return nil
	}

	info, inspectErr := d.Engine.InspectContainer(ctx, svc.Name)
	running := inspectErr == nil && info.Running

	if running && !d.Opts.Replace {
		logOp("Running "+verb+" in", svc.Name)
		code, err := d.Engine.Exec(ctx, engine.ExecSpec{
			ContainerID: info.ID,
			Command:     cmd,
			AttachStdin: false,
		}, os.Stdout, os.Stderr)
		if err != nil {
			return err
		}
		return exitCodeErr(svc.Name, verb, code)
	}

	wasRunning := running
	if wasRunning {
		logOp("Replacing", svc.Name)
		if err := d.stopOne(ctx, svc); err != nil {
			return err
		}
	}

	placeholder := specFor(svc, d.Opts.Env, d.Opts.EnvFileVals)
	placeholder.Command = []string{"cat"}
	placeholder.OpenStdin = true

	logOp("Running "+verb+" in a placeholder container for", svc.Name)
	id, err := d.Engine.CreateContainer(ctx, placeholder)
	if err != nil {
		return err
	}
	if err := d.Engine.StartContainer(ctx, id); err != nil {
		return err
	}

	code, execErr := d.Engine.Exec(ctx, engine.ExecSpec{
		ContainerID: id,
		Command:     cmd,
		AttachStdin: false,
	}, os.Stdout, os.Stderr)

	if d.Opts.Force {
		_ = d.Engine.KillContainer(ctx, id, "SIGKILL")
	} else {
		_ = d.Engine.StopContainer(ctx, id, svc.ExpectedTimeout)
	}
	if err := d.Engine.RemoveContainer(ctx, id, true); err != nil {
		return err
	}
	if d.Opts.Wipe {
		for _, v := range svc.Volumes.EnvVolumes(d.Opts.Env) {
			_ = d.Engine.RemoveVolume(ctx, v, true)
		}
	}

	if wasRunning {
		logOp("Restoring", svc.Name)
		if err := d.startOne(ctx, svc); err != nil {
			return err
		}
	}

	if execErr != nil {
		return execErr
	}
	return exitCodeErr(svc.Name, verb, code)
}

func exitCodeErr(name, verb string, code int) error {
	if code == 0 {
		return nil
	}
	return fmt.Errorf("%s: command %q exited %d", name, verb, code)
}
