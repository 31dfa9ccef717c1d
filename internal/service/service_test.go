package service_test

import (
	"testing"

	"github.com/PetroDE/control/internal/imageref"
	"github.com/PetroDE/control/internal/service"
	"gotest.tools/v3/assert"
)

func TestAliasesRewriteKey(t *testing.T) {
	s := service.New("example", imageref.Reference{Image: "busybox"})
	assert.NilError(t, s.Set("cmd", []string{"echo", "hi"}))
	v, err := s.Get("command")
	assert.NilError(t, err)
	assert.DeepEqual(t, v, []string{"echo", "hi"})
}

func TestUnknownOptionOnSetIsError(t *testing.T) {
	s := service.New("example", imageref.Reference{Image: "busybox"})
	err := s.Set("not_a_real_option", "x")
	assert.ErrorContains(t, err, "unknown option")
}

func TestMissingOnGetIsError(t *testing.T) {
	s := service.New("example", imageref.Reference{Image: "busybox"})
	_, err := s.Get("not_a_real_option")
	assert.ErrorContains(t, err, "not present")
}

func TestVolumesPseudoKeyConcatenatesBuckets(t *testing.T) {
	s := service.New("example", imageref.Reference{Image: "busybox"})
	s.Volumes.Shared = []string{"shared:/a"}
	s.Volumes.Dev = []string{"dev:/b"}
	s.Volumes.Prod = []string{"prod:/c"}
	v, err := s.Get("volumes")
	assert.NilError(t, err)
	assert.DeepEqual(t, v, []string{"shared:/a", "dev:/b", "prod:/c"})
}

func TestSetVolumesWithListStoresShared(t *testing.T) {
	s := service.New("example", imageref.Reference{Image: "busybox"})
	assert.NilError(t, s.Set("volumes", []string{"namevolume:/var/log"}))
	assert.DeepEqual(t, s.Volumes.Shared, []string{"namevolume:/var/log"})
}

func TestOptionalTrueClearsRequired(t *testing.T) {
	s := service.New("example", imageref.Reference{Image: "busybox"})
	assert.Assert(t, s.Required)
	assert.NilError(t, s.Set("optional", true))
	assert.Assert(t, !s.Required)
}

func TestExplicitRequiredWinsOverOptional(t *testing.T) {
	s := service.New("example", imageref.Reference{Image: "busybox"})
	assert.NilError(t, s.Set("required", true))
	assert.NilError(t, s.Set("optional", true))
	assert.Assert(t, s.Required)

	s2 := service.New("example", imageref.Reference{Image: "busybox"})
	assert.NilError(t, s2.Set("optional", true))
	assert.NilError(t, s2.Set("required", true))
	assert.Assert(t, s2.Required)
}

func TestSplitVolumes(t *testing.T) {
	containerPaths, binds := service.SplitVolumes([]string{"/var/log", "namevolume:/var/log"})
	assert.DeepEqual(t, containerPaths, []string{"/var/log", "/var/log"})
	assert.DeepEqual(t, binds, []string{"namevolume:/var/log"})
}

func TestFillInHolesDerivesNameFromImage(t *testing.T) {
	ref, _ := imageref.Parse("busybox")
	s := &service.Service{Image: ref, Container: map[string]interface{}{}}
	s.FillInHoles()
	assert.Equal(t, s.Name, "busybox")
}

func TestFillInHolesMirrorsHostname(t *testing.T) {
	ref, _ := imageref.Parse("busybox")
	s := &service.Service{
		Name:      "example",
		Image:     ref,
		Container: map[string]interface{}{"name": "example"},
	}
	s.FillInHoles()
	assert.Equal(t, s.Container["hostname"], "example")
}

func TestDumpIsDeterministic(t *testing.T) {
	ref, _ := imageref.Parse("busybox")
	s := &service.Service{
		Image: ref,
		Container: map[string]interface{}{
			"name": "example",
		},
	}
	first := s.Dump("run", "dev", false, nil)
	second := s.Dump("run", "dev", false, nil)
	assert.Equal(t, first, second)
}
