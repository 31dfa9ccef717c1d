package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PetroDE/control/internal/project"
	"gotest.tools/v3/assert"
)

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "control.yml")
	assert.NilError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveSingleUnitDescriptor(t *testing.T) {
	path := writeDescriptor(t, `
image: busybox
command: echo hi
`)
	reg, err := project.Resolve(path, map[string]string{})
	assert.NilError(t, err)
	svc, ok := reg.Units["busybox"]
	assert.Assert(t, ok, "expected a unit named busybox")
	assert.Equal(t, svc.Image.Image, "busybox")
}

func TestResolveSubstitutesVarsIntoUnitFields(t *testing.T) {
	path := writeDescriptor(t, `
vars:
  SUFFIX: "-dev"
services:
  web:
    image: busybox
    command: "echo {SUFFIX}"
`)
	reg, err := project.Resolve(path, map[string]string{})
	assert.NilError(t, err)
	svc, ok := reg.Units["web"]
	assert.Assert(t, ok)
	cmd, err := svc.Get("command")
	assert.NilError(t, err)
	assert.Equal(t, cmd, "echo -dev")
}

func TestResolveUnionOperandPreservesBaseFirstOrdering(t *testing.T) {
	path := writeDescriptor(t, `
options:
  environment:
    union:
      - "A=1"
services:
  web:
    image: busybox
    environment:
      - "B=2"
`)
	reg, err := project.Resolve(path, map[string]string{})
	assert.NilError(t, err)
	svc, ok := reg.Units["web"]
	assert.Assert(t, ok)
	env, err := svc.Get("environment")
	assert.NilError(t, err)
	assert.DeepEqual(t, env, []string{"B=2", "A=1"})
}

func TestResolveRequiredOptionalSyntheticGroups(t *testing.T) {
	path := writeDescriptor(t, `
services:
  web:
    image: busybox
  cache:
    image: busybox
    required: false
`)
	reg, err := project.Resolve(path, map[string]string{})
	assert.NilError(t, err)
	assert.DeepEqual(t, reg.Flatten("required"), []string{"web"})
	assert.DeepEqual(t, reg.Flatten("optional"), []string{"cache"})
}

func TestResolveListValuedGroupIsLateBound(t *testing.T) {
	path := writeDescriptor(t, `
services:
  api:
    image: busybox
  worker:
    image: busybox
  backend:
    services:
      - api
      - worker
`)
	reg, err := project.Resolve(path, map[string]string{})
	assert.NilError(t, err)
	_, ok := reg.Units["api"]
	assert.Assert(t, ok)
	_, ok = reg.Units["worker"]
	assert.Assert(t, ok)
	members := reg.Flatten("backend")
	assert.DeepEqual(t, members, []string{"api", "worker"})
}

func TestResolveMissingImageIsInvalidDescriptor(t *testing.T) {
	path := writeDescriptor(t, `
services:
  web:
    command: echo hi
`)
	_, err := project.Resolve(path, map[string]string{})
	assert.ErrorContains(t, err, "invalid project descriptor")
}

func TestResolveNestedGroupFlattensMembers(t *testing.T) {
	path := writeDescriptor(t, `
services:
  backend:
    services:
      api:
        image: busybox
      worker:
        image: busybox
`)
	reg, err := project.Resolve(path, map[string]string{})
	assert.NilError(t, err)
	_, ok := reg.Units["api"]
	assert.Assert(t, ok)
	_, ok = reg.Units["worker"]
	assert.Assert(t, ok)
	members := reg.Flatten("backend")
	assert.Assert(t, len(members) == 2)
}
