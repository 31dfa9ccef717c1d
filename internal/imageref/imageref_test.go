package imageref_test

import (
	"testing"

	"github.com/PetroDE/control/internal/imageref"
	"gotest.tools/v3/assert"
)

func TestParseRoundTrip(t *testing.T) {
	// The tag defaults to latest and String always renders it.
	cases := []struct{ in, want string }{
		{"busybox", "busybox:latest"},
		{"busybox:1.2", "busybox:1.2"},
		{"team/app", "team/app:latest"},
		{"registry.example.com:5000/team/app:dev", "registry.example.com:5000/team/app:dev"},
		{"localhost/app", "localhost/app:latest"},
		{"localhost:5000/app:latest", "localhost:5000/app:latest"},
	}
	for _, c := range cases {
		ref, err := imageref.Parse(c.in)
		assert.NilError(t, err)
		assert.Equal(t, ref.String(), c.want)
	}
}

func TestParseFields(t *testing.T) {
	ref, err := imageref.Parse("registry.example.com:5000/team/app:dev")
	assert.NilError(t, err)
	assert.Equal(t, ref.Domain, "registry.example.com")
	assert.Equal(t, ref.Port, "5000")
	assert.Equal(t, ref.Image, "team/app")
	assert.Equal(t, ref.Tag, "dev")
	assert.Equal(t, ref.Registry(), "registry.example.com:5000")
	assert.Equal(t, ref.PullImageName(), "registry.example.com:5000/team/app")
}

func TestDefaultTag(t *testing.T) {
	ref, err := imageref.Parse("busybox")
	assert.NilError(t, err)
	assert.Equal(t, ref.Tag, "latest")
}

func TestIsOfficial(t *testing.T) {
	ref, err := imageref.Parse("busybox")
	assert.NilError(t, err)
	assert.Assert(t, ref.IsOfficial())

	ref, err = imageref.Parse("registry.example.com/team/app")
	assert.NilError(t, err)
	assert.Assert(t, !ref.IsOfficial())
}

func TestEqual(t *testing.T) {
	a, _ := imageref.Parse("busybox:latest")
	b, _ := imageref.Parse("busybox")
	assert.Assert(t, a.Equal(b))
}

func TestEmptyIsError(t *testing.T) {
	_, err := imageref.Parse("")
	assert.ErrorContains(t, err, "empty reference")
}
