package substitute_test

import (
	"testing"

	"github.com/PetroDE/control/internal/substitute"
	"github.com/PetroDE/control/internal/transform"
	"gotest.tools/v3/assert"
)

func TestStringInterpolatesKnownVar(t *testing.T) {
	mapping := substitute.MapFromVars(map[string]string{"FOO": "example"})
	assert.Equal(t, substitute.String("test.{FOO}", mapping), "test.example")
}

func TestStringSwallowsUnknownVar(t *testing.T) {
	mapping := substitute.MapFromVars(map[string]string{})
	assert.Equal(t, substitute.String("test.{MISSING}", mapping), "test.{MISSING}")
}

func TestHasUnresolved(t *testing.T) {
	assert.Assert(t, substitute.HasUnresolved("{STILL_HERE}"))
	assert.Assert(t, !substitute.HasUnresolved("all resolved"))
}

func TestExtractVariables(t *testing.T) {
	names := substitute.ExtractVariables("{A}-{B}-{A}")
	assert.DeepEqual(t, names, []string{"A", "B", "A"})
}

func TestTreeWalksNestedStructures(t *testing.T) {
	mapping := substitute.MapFromVars(map[string]string{"FOO": "bar"})
	in := map[string]interface{}{
		"a": "{FOO}",
		"b": []interface{}{"{FOO}", "plain"},
		"c": map[string]interface{}{"d": "{FOO}"},
	}
	out := substitute.Tree(in, mapping).(map[string]interface{})
	assert.Equal(t, out["a"], "bar")
	assert.DeepEqual(t, out["b"], []interface{}{"bar", "plain"})
	assert.Equal(t, out["c"].(map[string]interface{})["d"], "bar")
}

func TestValueWalksTransformValues(t *testing.T) {
	mapping := substitute.MapFromVars(map[string]string{"FOO": "bar"})
	in := transform.NewList([]string{"{FOO}:/home"})
	out := substitute.Value(in, mapping)
	assert.DeepEqual(t, out.List, []string{"bar:/home"})
}

func TestAmbientVarsHasRequiredKeys(t *testing.T) {
	vars := substitute.AmbientVars(".", substitute.NewSessionUUID())
	for _, k := range []string{"PROJECT_DIR", "PROJECT_PATH", "SESSION_UUID", "UID", "GID"} {
		_, ok := vars[k]
		assert.Assert(t, ok, "missing ambient var %s", k)
	}
}

func TestLayerOverridesInOrder(t *testing.T) {
	ambient := map[string]string{"A": "ambient", "B": "ambient"}
	env := map[string]string{"B": "env", "C": "env"}
	scoped := map[string]string{"C": "scoped"}
	merged, err := substitute.Layer(ambient, env, scoped)
	assert.NilError(t, err)
	assert.Equal(t, merged["A"], "ambient")
	assert.Equal(t, merged["B"], "env")
	assert.Equal(t, merged["C"], "scoped")
}
