package dispatch

import (
	"context"
	"fmt"

	"github.com/PetroDE/control/internal/engine"
	"github.com/PetroDE/control/internal/service"
)

// Restart stops every named unit (ignoring "it wasn't running" errors) and
// starts it again, the Go equivalent of restart() composing stop() then
// start() in the original.
func (d *Dispatcher) Restart(ctx context.Context, units []*service.Service) error {
	if err := d.Stop(ctx, units); err != nil {
		return err
	}
	return d.Start(ctx, units)
}

// Start creates and starts a container for every named unit, grounded on
// functions.py's start(): each service is handled independently so one
// failure does not prevent the rest from starting.
func (d *Dispatcher) Start(ctx context.Context, units []*service.Service) error {
	var errs []error
	for _, svc := range units {
		logOp("Starting", svc.Name)
		if err := d.startOne(ctx, svc); err != nil {
			errs = append(errs, fmt.Errorf("starting %s: %w", svc.Name, err))
		}
	}
	return collectErrors(errs)
}

func (d *Dispatcher) startOne(ctx context.Context, svc *service.Service) error {
	if d.Opts.NoVolumes {
		svc.Volumes = service.Volumes{}
	}
	spec := specFor(svc, d.Opts.Env, d.Opts.EnvFileVals)

	if ShouldPull(d.Opts.Pull, "start", svc.Buildable()) {
		if err := d.Engine.Pull(ctx, spec.Image, d.Opts.Progress); err != nil {
			return err
		}
	}

	id, err := d.Engine.CreateContainer(ctx, spec)
	if err != nil {
		return err
	}
	return d.Engine.StartContainer(ctx, id)
}

// Stop stops, then removes, every named unit's container, optionally
// killing instead of stopping (Opts.Force) and removing volumes
// (Opts.Wipe), mirroring functions.py's stop().
func (d *Dispatcher) Stop(ctx context.Context, units []*service.Service) error {
	var errs []error
	for _, svc := range units {
		if err := d.stopOne(ctx, svc); err != nil {
			errs = append(errs, fmt.Errorf("stopping %s: %w", svc.Name, err))
		}
	}
	return collectErrors(errs)
}

func (d *Dispatcher) stopOne(ctx context.Context, svc *service.Service) error {
	info, err := d.Engine.InspectContainer(ctx, svc.Name)
	if err != nil {
		logOp("(not running)", svc.Name)
		return nil
	}

	if d.Opts.Force {
		logOp("Killing", svc.Name)
		if err := d.Engine.KillContainer(ctx, info.ID, "SIGKILL"); err != nil {
			return err
		}
	} else {
		logOp("Stopping", svc.Name)
		if err := d.Engine.StopContainer(ctx, info.ID, svc.ExpectedTimeout); err != nil {
			return err
		}
	}

	logOp("Removing", svc.Name)
	if err := d.Engine.RemoveContainer(ctx, info.ID, true); err != nil {
		return err
	}
	if d.Opts.Wipe {
		for _, v := range svc.Volumes.EnvVolumes(d.Opts.Env) {
			_ = d.Engine.RemoveVolume(ctx, v, true)
		}
	}
	return nil
}

// specFor translates a Service's prepared container options into the
// engine-facing ContainerSpec, the Go equivalent of handing
// UniService.prepare_container_options straight to docker-py's
// create_container.
func specFor(svc *service.Service, env string, envFileValues map[string]string) engine.ContainerSpec {
	opts := svc.PrepareContainerOptions(env, envFileValues)
	spec := engine.ContainerSpec{
		Name:  svc.Name,
		Image: svc.Image.String(),
	}
	spec.Command = toStrings(opts["command"])
	spec.Env = toStrings(opts["environment"])
	spec.Binds = toStrings(opts["binds"])
	spec.DNS = toStrings(opts["dns"])
	spec.ExtraHosts = toStrings(opts["extra_hosts"])

	if s, ok := opts["hostname"].(string); ok {
		spec.Hostname = s
	}
	if s, ok := opts["working_dir"].(string); ok {
		spec.WorkingDir = s
	}
	if s, ok := opts["user"].(string); ok {
		spec.User = s
	}
	if b, ok := opts["tty"].(bool); ok {
		spec.Tty = b
	}
	if b, ok := opts["stdin_open"].(bool); ok {
		spec.OpenStdin = b
	}
	if b, ok := opts["privileged"].(bool); ok {
		spec.Privileged = b
	}
	if m, ok := opts["labels"].(map[string]interface{}); ok {
		spec.Labels = map[string]string{}
		for k, v := range m {
			if s, ok := v.(string); ok {
				spec.Labels[k] = s
			}
		}
	}
	return spec
}

func toStrings(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
