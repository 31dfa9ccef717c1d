package transform_test

import (
	"testing"

	"github.com/PetroDE/control/internal/transform"
	"gotest.tools/v3/assert"
)

func TestSuffixScalar(t *testing.T) {
	result := transform.Apply(transform.OpSuffix, transform.NewScalar("test"), transform.NewScalar(".example"))
	assert.Equal(t, result.Scalar, "test.example")
}

func TestPrefixScalar(t *testing.T) {
	result := transform.Apply(transform.OpPrefix, transform.NewScalar("test"), transform.NewScalar("pre-"))
	assert.Equal(t, result.Scalar, "pre-test")
}

func TestSuffixScalarPromotedToList(t *testing.T) {
	result := transform.Apply(transform.OpSuffix, transform.NewScalar("a"), transform.NewList([]string{"b", "c"}))
	assert.DeepEqual(t, result.List, []string{"a", "b", "c"})
}

func TestUnionPreservesFirstOccurrenceBaseFirst(t *testing.T) {
	base := transform.NewList([]string{"vardata:/var/lib/example"})
	operand := transform.NewList([]string{"example:/home"})
	result := transform.Apply(transform.OpUnion, base, operand)
	assert.DeepEqual(t, result.List, []string{"vardata:/var/lib/example", "example:/home"})
}

func TestUnionDropsRightDuplicates(t *testing.T) {
	base := transform.NewList([]string{"a", "b"})
	operand := transform.NewList([]string{"b", "c"})
	result := transform.Apply(transform.OpUnion, base, operand)
	assert.DeepEqual(t, result.List, []string{"a", "b", "c"})
}

func TestReplaceTruthyWins(t *testing.T) {
	result := transform.Apply(transform.OpReplace, transform.NewScalar("old"), transform.NewScalar("new"))
	assert.Equal(t, result.Scalar, "new")

	result = transform.Apply(transform.OpReplace, transform.NewScalar("old"), transform.NewScalar(""))
	assert.Equal(t, result.Scalar, "old")
}

func TestReplaceMapMergesPerKey(t *testing.T) {
	base := transform.NewMap(map[string]transform.Value{
		"dev":  transform.NewScalar("devval"),
		"prod": transform.NewScalar("prodval"),
	})
	operand := transform.NewMap(map[string]transform.Value{
		"dev": transform.NewScalar("override"),
	})
	result := transform.Apply(transform.OpReplace, base, operand)
	assert.Equal(t, result.Map["dev"].Scalar, "override")
	assert.Equal(t, result.Map["prod"].Scalar, "prodval")
}

func TestScalarBroadcastOntoMap(t *testing.T) {
	base := transform.NewScalar("X")
	operand := transform.NewMap(map[string]transform.Value{
		"dev":  transform.NewScalar("1"),
		"prod": transform.NewScalar("2"),
	})
	result := transform.Apply(transform.OpSuffix, base, operand)
	assert.Equal(t, result.Kind, transform.KindMap)
	assert.Equal(t, result.Map["dev"].Scalar, "X1")
	assert.Equal(t, result.Map["prod"].Scalar, "X2")
}

func TestMapSuffixMapUnionOfKeys(t *testing.T) {
	base := transform.NewMap(map[string]transform.Value{
		"dev": transform.NewScalar("a"),
	})
	operand := transform.NewMap(map[string]transform.Value{
		"prod": transform.NewScalar("b"),
	})
	result := transform.Apply(transform.OpSuffix, base, operand)
	assert.Equal(t, result.Map["dev"].Scalar, "a")
	assert.Equal(t, result.Map["prod"].Scalar, "b")
}

func TestMergeOperandSuffixInnerFirst(t *testing.T) {
	merged := transform.MergeOperand(transform.OpSuffix, transform.NewScalar(".inner"), transform.NewScalar(".outer"))
	assert.Equal(t, merged.Scalar, ".inner.outer")
}

func TestMergeOperandPrefixOuterFirst(t *testing.T) {
	merged := transform.MergeOperand(transform.OpPrefix, transform.NewScalar("inner-"), transform.NewScalar("outer-"))
	assert.Equal(t, merged.Scalar, "outer-inner-")
}

func TestMergeOperandUnionInnerFirst(t *testing.T) {
	merged := transform.MergeOperand(transform.OpUnion,
		transform.NewList([]string{"i1", "i2"}),
		transform.NewList([]string{"i2", "o1"}))
	assert.DeepEqual(t, merged.List, []string{"i1", "i2", "o1"})
}

func TestAssociativitySameOperation(t *testing.T) {
	a := transform.NewScalar("a")
	b := transform.NewScalar("b")
	c := transform.NewScalar("c")

	left := transform.Apply(transform.OpSuffix, transform.Apply(transform.OpSuffix, a, b), c)
	right := transform.Apply(transform.OpSuffix, a, transform.Apply(transform.OpSuffix, b, c))
	assert.Equal(t, left.Scalar, right.Scalar)
}
