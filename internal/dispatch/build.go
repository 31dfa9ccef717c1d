package dispatch

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/PetroDE/control/internal/engine"
	"github.com/PetroDE/control/internal/imageref"
	"github.com/PetroDE/control/internal/service"
)

// Build builds env's image ("dev" or "prod") for every named unit,
// grounded on functions.py's build()/build_prod(): run the prebuild hook,
// rewrite the Dockerfile's FROM line when the unit overrides it, pull the
// discovered upstream image when warranted, then hand the rewritten
// Dockerfile to the engine. A unit with no Dockerfile for env, or whose
// prebuild hook fails, is skipped rather than aborting the whole batch.
func (d *Dispatcher) Build(ctx context.Context, units []*service.Service, env string) error {
	var errs []error
	for _, svc := range units {
		df, ok := svc.Dockerfile[env]
		if !ok || df == "" {
			continue
		}
		logOp("Building", svc.Name)
		if err := d.buildOne(ctx, svc, env, df); err != nil {
			errs = append(errs, fmt.Errorf("building %s: %w", svc.Name, err))
		}
	}
	return collectErrors(errs)
}

func (d *Dispatcher) buildOne(ctx context.Context, svc *service.Service, env, dockerfile string) error {
	if hook := svc.Prebuild.For(env); hook != "" {
		if err := runEventHook(hook, filepath.Dir(dockerfile)); err != nil {
			return fmt.Errorf("%w: prebuild: %v", ErrEventHookFailed, err)
		}
	}

	rewritten, upstream, err := rewriteFromLine(dockerfile, svc.FromLine[env])
	if err != nil {
		return err
	}
	if upstream == nil {
		return fmt.Errorf("dockerfile %s has no FROM line", dockerfile)
	}

	if !d.Opts.DryRun && ShouldPull(d.Opts.Pull, "build", false) {
		logOp("Pulling upstream", upstream.String())
		if err := d.Engine.Pull(ctx, upstream.PullImageName(), d.Opts.Progress); err != nil {
			return fmt.Errorf("pulling upstream %s: %w", upstream.String(), err)
		}
	}

	if !d.Opts.DryRun {
		tmp, err := os.CreateTemp("", "control-dockerfile-*")
		if err != nil {
			return err
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.WriteString(rewritten); err != nil {
			tmp.Close()
			return err
		}
		tmp.Close()

		spec := engine.BuildSpec{
			ContextDir: filepath.Dir(dockerfile),
			Dockerfile: tmp.Name(),
			Tag:        svc.Image.String(),
			NoCache:    d.Opts.NoCache,
			Remove:     !d.Opts.NoRemove,
		}
		if err := d.Engine.Build(ctx, spec, d.Opts.Progress); err != nil {
			return fmt.Errorf("%w: %v", ErrBuildFailed, err)
		}
	}

	if hook := svc.Postbuild.For(env); hook != "" {
		if err := runEventHook(hook, filepath.Dir(dockerfile)); err != nil {
			if env == "prod" {
				return fmt.Errorf("%w: postbuild: %v", ErrEventHookFailed, err)
			}
			warn(fmt.Sprintf("%s: postbuild failed, environment may not have been cleaned up", svc.Name))
		}
	}
	return nil
}

// rewriteFromLine reads dockerfile and replaces its FROM line with
// override when set, returning the rewritten content and the parsed
// upstream reference that FROM line names.
func rewriteFromLine(dockerfile, override string) (string, *imageref.Reference, error) {
	f, err := os.Open(dockerfile)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	var out bytes.Buffer
	var upstream *imageref.Reference
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "FROM") {
			src := line
			if override != "" {
				src = override
			}
			fields := strings.Fields(src)
			if len(fields) >= 2 {
				if ref, err := imageref.Parse(fields[1]); err == nil {
					upstream = &ref
				}
			}
			out.WriteString(src)
		} else {
			out.WriteString(line)
		}
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", nil, err
	}
	return out.String(), upstream, nil
}

// runEventHook runs cmd through the shell with its working directory set
// to dir, the Go equivalent of run_event()'s chdir-then-Popen(shell=True).
func runEventHook(cmd, dir string) error {
	c := exec.Command("sh", "-c", cmd)
	c.Dir = dir
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
