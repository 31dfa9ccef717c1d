// Package dispatch maps a verb and a set of service/group names onto the
// Engine calls that implement it: build, start, stop, restart, open, and
// ad hoc command execution. Grounded on functions.py's dispatch_dict and
// per-verb functions, and on docker-compose's pkg/compose/stop.go for the
// Go shape of "sort service names, act on each, collect errors".
package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/PetroDE/control/internal/engine"
	"github.com/PetroDE/control/internal/project"
	"github.com/PetroDE/control/internal/service"
	"github.com/hashicorp/go-multierror"
	"github.com/morikuni/aec"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options carries the per-invocation flags that modify dispatch behavior,
// the Go analogue of the original's global `options` module.
type Options struct {
	Pull        PullPolicy
	Force       bool // kill instead of stop
	Wipe        bool // also remove volumes
	Replace     bool // take down a running container for the duration of a custom command
	NoVolumes   bool // start with no volume mounts
	DryRun      bool
	NoCache     bool
	NoRemove    bool // docker build --rm=false
	Env         string
	EnvFileVals map[string]string
	Progress    io.Writer
}

// Dispatcher wires a resolved Registry to an Engine and executes verbs
// against the services/groups the caller names.
type Dispatcher struct {
	Engine   engine.Engine
	Registry *project.Registry
	Opts     Options
}

// New builds a Dispatcher. A nil Progress writer defaults to os.Stdout.
func New(eng engine.Engine, reg *project.Registry, opts Options) *Dispatcher {
	if opts.Progress == nil {
		opts.Progress = os.Stdout
	}
	return &Dispatcher{Engine: eng, Registry: reg, Opts: opts}
}

// resolveNames flattens every name (service or group) to its member unit
// names, de-duplicated, then sorts the result so every verb observes a
// deterministic order regardless of the resolver's own traversal order.
func (d *Dispatcher) resolveNames(names []string) ([]*service.Service, error) {
	seen := map[string]bool{}
	var units []*service.Service
	for _, name := range names {
		members := d.Registry.Flatten(name)
		if len(members) == 0 {
			if _, ok := d.Registry.Units[name]; !ok {
				return nil, errors.Wrapf(ErrUnknownService, "%q", name)
			}
			members = []string{name}
		}
		for _, m := range members {
			if seen[m] {
				continue
			}
			seen[m] = true
			units = append(units, d.Registry.Units[m])
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units, nil
}

// Dispatch maps verb onto the corresponding operation, the Go equivalent
// of indexing functions.py's dispatch_dict with a "default to command"
// fallback for anything not a recognized built-in verb.
func (d *Dispatcher) Dispatch(ctx context.Context, verb string, names []string) error {
	units, err := d.resolveNames(names)
	if err != nil {
		return err
	}

	switch verb {
	case "build":
		return d.Build(ctx, units, "dev")
	case "build-prod":
		return d.Build(ctx, units, "prod")
	case "start":
		// A unit whose container already exists is left as it is.
		var absent []*service.Service
		for _, svc := range units {
			if _, err := d.Engine.InspectContainer(ctx, svc.Name); err == nil {
				logOp("(already exists)", svc.Name)
				continue
			}
			absent = append(absent, svc)
		}
		return d.Start(ctx, absent)
	case "restart":
		return d.Restart(ctx, units)
	case "stop":
		return d.Stop(ctx, units)
	case "rere", "default":
		if err := d.Build(ctx, units, "dev"); err != nil {
			return err
		}
		var startable []*service.Service
		for _, svc := range units {
			if svc.Startable() {
				startable = append(startable, svc)
			}
		}
		return d.Restart(ctx, startable)
	case "open":
		if len(units) != 1 {
			return fmt.Errorf("dispatch: open takes exactly one service, got %d", len(units))
		}
		return d.Open(ctx, units[0])
	default:
		return d.Command(ctx, units, verb)
	}
}

// logOp is the terse per-service progress line every verb prints, the Go
// analogue of the original's bare `print('Starting {}'.format(name))`
// calls.
func logOp(verb, name string) {
	logrus.Infof("%s %s", verb, name)
}

// warn prints a red-highlighted, non-fatal warning to stderr, the same
// aec-colored convention the teacher's CLI wiring uses for deprecation and
// cleanup notices.
func warn(message string) {
	fmt.Fprint(os.Stderr, aec.Apply(message+"\n", aec.RedF))
}

func collectErrors(errs []error) error {
	var result *multierror.Error
	for _, e := range errs {
		if e != nil {
			result = multierror.Append(result, e)
		}
	}
	return result.ErrorOrNil()
}
