package dispatch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PetroDE/control/internal/dispatch"
	"github.com/PetroDE/control/internal/engine"
	"github.com/PetroDE/control/internal/project"
	"gotest.tools/v3/assert"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NilError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestRegistry(t *testing.T) *project.Registry {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "Dockerfile", "FROM alpine:3.18\nRUN echo hi\n")
	writeFile(t, dir, "Controlfile.yml", `
services:
  web:
    image: example.com/acme/web:latest
    dockerfile: Dockerfile
    command: echo hello
    commands:
      test: "echo {COMMAND}"
`)
	reg, err := project.Resolve(filepath.Join(dir, "Controlfile.yml"), map[string]string{})
	assert.NilError(t, err)
	return reg
}

func newTestDispatcher(t *testing.T, eng engine.Engine) *dispatch.Dispatcher {
	return newTestDispatcherWithOpts(t, eng, dispatch.Options{})
}

func newTestDispatcherWithOpts(t *testing.T, eng engine.Engine, opts dispatch.Options) *dispatch.Dispatcher {
	reg := newTestRegistry(t)
	opts.Pull = dispatch.PullNever
	opts.Env = "dev"
	opts.EnvFileVals = map[string]string{}
	return dispatch.New(eng, reg, opts)
}

func TestDispatchStartStop(t *testing.T) {
	fake := engine.NewFake()
	d := newTestDispatcher(t, fake)

	assert.NilError(t, d.Dispatch(context.Background(), "start", []string{"web"}))
	assert.Equal(t, len(fake.Calls), 2)
	assert.Equal(t, fake.Calls[0], "create:web")
	assert.Equal(t, fake.Calls[1], "start:fake-1")

	assert.NilError(t, d.Dispatch(context.Background(), "stop", []string{"web"}))
	assert.Equal(t, fake.Calls[2], "stop:fake-1")
	assert.Equal(t, fake.Calls[3], "remove:fake-1")
}

func TestDispatchUnknownServiceIsExitCode2(t *testing.T) {
	fake := engine.NewFake()
	d := newTestDispatcher(t, fake)

	err := d.Dispatch(context.Background(), "start", []string{"nope"})
	assert.ErrorIs(t, err, dispatch.ErrUnknownService)
	assert.Equal(t, dispatch.ExitCode(err), 2)
}

func TestDispatchCommandRunsAgainstRunningContainer(t *testing.T) {
	fake := engine.NewFake()
	d := newTestDispatcher(t, fake)

	assert.NilError(t, d.Dispatch(context.Background(), "start", []string{"web"}))
	assert.NilError(t, d.Dispatch(context.Background(), "test", []string{"web"}))

	found := false
	for _, c := range fake.Calls {
		if c == "exec:fake-1" {
			found = true
		}
	}
	assert.Assert(t, found, "expected an exec call against the running container, got %v", fake.Calls)
}

func TestDispatchCommandWithReplaceTearsDownAndRestores(t *testing.T) {
	fake := engine.NewFake()
	d := newTestDispatcherWithOpts(t, fake, dispatch.Options{Replace: true})

	assert.NilError(t, d.Dispatch(context.Background(), "start", []string{"web"}))
	assert.NilError(t, d.Dispatch(context.Background(), "test", []string{"web"}))

	assert.DeepEqual(t, fake.Calls, []string{
		"create:web", "start:fake-1", // start
		"stop:fake-1", "remove:fake-1", // replace tears down the running container
		"create:web", "start:fake-2", "exec:fake-2", // placeholder runs the command
		"stop:fake-2", "remove:fake-2", // placeholder torn down
		"create:web", "start:fake-3", // original configuration restored
	})
}

func TestDispatchBuildRewritesFromLineAndBuilds(t *testing.T) {
	fake := engine.NewFake()
	d := newTestDispatcher(t, fake)

	assert.NilError(t, d.Dispatch(context.Background(), "build", []string{"web"}))

	found := false
	for _, c := range fake.Calls {
		if c == "build:example.com/acme/web:latest" {
			found = true
		}
	}
	assert.Assert(t, found, "expected a build call tagging the service image, got %v", fake.Calls)
}
