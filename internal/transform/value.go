// Package transform implements the four-operation, three-kind algebra used
// to merge nested project-file options: prefix, suffix, union, and replace,
// applied across scalar, list, and map typed values.
package transform

import "fmt"

// Kind tags the shape of a Value.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// sharedKey names the "shared" map key. Nothing in this package reads it:
// Apply broadcasts a scalar or list operand over every key of a map base
// (applyMap) instead of promoting it under this key.
const sharedKey = "shared"

// Value is a tagged union of Scalar | List | Map. Exactly one field is
// meaningful, selected by Kind.
type Value struct {
	Kind   Kind
	Scalar string
	List   []string
	Map    map[string]Value
}

// NewScalar builds a scalar Value.
func NewScalar(s string) Value { return Value{Kind: KindScalar, Scalar: s} }

// NewList builds a list Value. The slice is copied.
func NewList(items []string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{Kind: KindList, List: cp}
}

// NewMap builds a map Value. The map is copied one level deep.
func NewMap(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{Kind: KindMap, Map: cp}
}

// Truthy mirrors the original's notion of a value being "set": an empty
// scalar, an empty list, and an empty map are all falsy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindScalar:
		return v.Scalar != ""
	case KindList:
		return len(v.List) > 0
	case KindMap:
		return len(v.Map) > 0
	default:
		return false
	}
}

// AsList renders a scalar or list Value as a list, per the kind-promotion
// rule (a scalar becomes a list of length one). Calling this on a map Value
// is a programmer error.
func (v Value) AsList() []string {
	switch v.Kind {
	case KindScalar:
		if v.Scalar == "" {
			return nil
		}
		return []string{v.Scalar}
	case KindList:
		out := make([]string, len(v.List))
		copy(out, v.List)
		return out
	default:
		panic(fmt.Sprintf("transform: AsList called on %s Value", v.Kind))
	}
}

// Equal compares two Values structurally.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindScalar:
		return v.Scalar == o.Scalar
	case KindList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != o.List[i] {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.Map) != len(o.Map) {
			return false
		}
		for k, vv := range v.Map {
			ov, ok := o.Map[k]
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
