package transform

// Op is one of the four transform operations, grounded on the `operations`
// dict in the original controlfile.py: suffix/prefix/union map straight to
// their lambdas there; replace is this project's generalization of the
// original's implicit "last value wins" behavior into an explicit op.
type Op int

const (
	OpSuffix Op = iota
	OpPrefix
	OpUnion
	OpReplace
)

func (op Op) String() string {
	switch op {
	case OpSuffix:
		return "suffix"
	case OpPrefix:
		return "prefix"
	case OpUnion:
		return "union"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// ParseOp maps a project-file key to an Op, the same lookup
// normalize_service performs against `operations.keys()` to reject anything
// the Controlfile author didn't mean as a transform.
func ParseOp(s string) (Op, bool) {
	switch s {
	case "suffix":
		return OpSuffix, true
	case "prefix":
		return OpPrefix, true
	case "union":
		return OpUnion, true
	case "replace":
		return OpReplace, true
	default:
		return 0, false
	}
}

// Apply combines base (the left operand — the value already present on the
// service being transformed) with operand (the right operand — the value
// named in the project file's operation) according to op. This is the
// direct generalization of operations[op](x, y) from the original, with x
// renamed base and y renamed operand.
func Apply(op Op, base, operand Value) Value {
	promoted := promote(base.Kind, operand.Kind)
	b := coerce(base, promoted)
	o := coerce(operand, promoted)

	switch promoted {
	case KindMap:
		return applyMap(op, b, o)
	case KindList:
		return Value{Kind: KindList, List: applyList(op, b.List, o.List)}
	default:
		return Value{Kind: KindScalar, Scalar: applyScalar(op, b.Scalar, o.Scalar)}
	}
}

// promote picks the more structured of two kinds: Map > List > Scalar.
func promote(a, b Kind) Kind {
	if a == KindMap || b == KindMap {
		return KindMap
	}
	if a == KindList || b == KindList {
		return KindList
	}
	return KindScalar
}

// coerce re-expresses v at the target kind. Promoting a scalar/list to a map
// is never needed here directly: map-involving combinations are handled by
// applyMap's per-key broadcast instead, which never calls coerce(..., KindMap)
// on a non-map operand.
func coerce(v Value, target Kind) Value {
	if v.Kind == target {
		return v
	}
	switch target {
	case KindList:
		return Value{Kind: KindList, List: v.AsList()}
	case KindMap:
		return v
	default:
		return v
	}
}

func applyScalar(op Op, base, operand string) string {
	switch op {
	case OpSuffix:
		return base + operand
	case OpPrefix:
		return operand + base
	case OpUnion:
		// A bare scalar union is degenerate: treat both sides as
		// singleton lists and keep only the first element of their
		// union. Kept for completeness; callers
		// working scalar-to-scalar union should prefer list Values.
		joined := applyList(op, []string{base}, []string{operand})
		if len(joined) == 0 {
			return ""
		}
		return joined[0]
	case OpReplace:
		if operand != "" {
			return operand
		}
		return base
	default:
		return base
	}
}

func applyList(op Op, base, operand []string) []string {
	switch op {
	case OpSuffix:
		return append(append([]string{}, base...), operand...)
	case OpPrefix:
		return append(append([]string{}, operand...), base...)
	case OpUnion:
		return orderedUnion(base, operand)
	case OpReplace:
		if len(operand) > 0 {
			return append([]string{}, operand...)
		}
		return append([]string{}, base...)
	default:
		return base
	}
}

// orderedUnion preserves the order of first occurrence, reading the left
// (base) operand first, then appending any new right-side (operand) values
// not already present — the left-priority reading of §4.B's "union"
// contract ("right-side duplicates of left-side values are dropped").
func orderedUnion(base, operand []string) []string {
	seen := make(map[string]struct{}, len(base)+len(operand))
	out := make([]string, 0, len(base)+len(operand))
	for _, v := range base {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range operand {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func applyMap(op Op, base, operand Value) Value {
	if base.Kind == KindMap && operand.Kind == KindMap {
		keys := make(map[string]struct{}, len(base.Map)+len(operand.Map))
		for k := range base.Map {
			keys[k] = struct{}{}
		}
		for k := range operand.Map {
			keys[k] = struct{}{}
		}
		result := make(map[string]Value, len(keys))
		for k := range keys {
			bv, bok := base.Map[k]
			ov, ook := operand.Map[k]
			switch {
			case bok && ook:
				result[k] = Apply(op, bv, ov)
			case bok:
				result[k] = bv
			default:
				result[k] = ov
			}
		}
		return Value{Kind: KindMap, Map: result}
	}
	if base.Kind == KindMap {
		// base is the map; broadcast operand to every one of its keys.
		result := make(map[string]Value, len(base.Map))
		for k, bv := range base.Map {
			result[k] = Apply(op, bv, operand)
		}
		return Value{Kind: KindMap, Map: result}
	}
	// operand is the map; broadcast base to every one of its keys.
	result := make(map[string]Value, len(operand.Map))
	for k, ov := range operand.Map {
		result[k] = Apply(op, base, ov)
	}
	return Value{Kind: KindMap, Map: result}
}

// MergeOperand combines an operand value contributed by an ancestor
// (outer-scope) layer with one contributed by a descendant (inner-scope,
// i.e. closer to the unit) layer when both layers specify the same
// operation on the same key, per §4.D step 5: "inner happens first, outer
// wraps it". For suffix this yields value+inner+outer; for prefix,
// outer+inner+value; for union, inner's items first then outer's new ones.
func MergeOperand(op Op, inner, outer Value) Value {
	switch op {
	case OpSuffix, OpPrefix:
		// Apply(suffix) yields inner+outer and Apply(prefix) yields
		// outer+inner, across every kind.
		return Apply(op, inner, outer)
	case OpUnion:
		return Value{Kind: KindList, List: orderedUnion(inner.AsList(), outer.AsList())}
	case OpReplace:
		if outer.Truthy() {
			return outer
		}
		return inner
	default:
		return outer
	}
}
