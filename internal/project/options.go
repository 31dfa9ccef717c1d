package project

import "github.com/PetroDE/control/internal/transform"

// Options is a group's `options` block: for each option key, the set of
// transform operations declared on it. Grounded on the `ops` parameter
// threaded through normalize_service/satisfy_nested_options in the
// original, generalized into Go's tagged-union Value instead of raw
// strings/lists.
type Options map[string]map[transform.Op]transform.Value

// applyOrder fixes the order operations are applied in when more than one
// is present on the same key, matching the insertion order
// satisfy_nested_options built its merged dict in: union, then suffix, then
// prefix, then replace (this project's addition, absent from the original's
// three operations).
var applyOrder = []transform.Op{transform.OpUnion, transform.OpSuffix, transform.OpPrefix, transform.OpReplace}

// parseOptions reads a group's `options` block out of a decoded YAML map.
func parseOptions(raw map[string]interface{}) Options {
	opts := Options{}
	for key, v := range raw {
		opMap, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		ops := map[transform.Op]transform.Value{}
		for opName, opVal := range opMap {
			op, ok := transform.ParseOp(opName)
			if !ok {
				continue
			}
			ops[op] = toValue(opVal)
		}
		if len(ops) > 0 {
			opts[key] = ops
		}
	}
	return opts
}

// toValue converts a YAML-decoded leaf into a transform.Value.
func toValue(v interface{}) transform.Value {
	switch t := v.(type) {
	case string:
		return transform.NewScalar(t)
	case []interface{}:
		items := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return transform.NewList(items)
	case map[string]interface{}:
		m := make(map[string]transform.Value, len(t))
		for k, child := range t {
			m[k] = toValue(child)
		}
		return transform.NewMap(m)
	case bool:
		if t {
			return transform.NewScalar("true")
		}
		return transform.NewScalar("")
	default:
		return transform.Value{}
	}
}

// mergeOptions combines outer (accumulated from ancestor groups) with inner
// (this group's own options.block) per §4.D step 5: "inner happens first,
// outer wraps it". For each key present on either side, each operation
// present on either side is combined via transform.MergeOperand.
func mergeOptions(outer, inner Options) Options {
	merged := Options{}
	for key := range unionKeys(outer, inner) {
		outerOps := outer[key]
		innerOps := inner[key]
		combined := map[transform.Op]transform.Value{}
		for op := range unionOps(outerOps, innerOps) {
			iv := innerOps[op]
			ov := outerOps[op]
			combined[op] = transform.MergeOperand(op, iv, ov)
		}
		if len(combined) > 0 {
			merged[key] = combined
		}
	}
	return merged
}

func unionKeys(a, b Options) map[string]struct{} {
	out := map[string]struct{}{}
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func unionOps(a, b map[transform.Op]transform.Value) map[transform.Op]struct{} {
	out := map[transform.Op]struct{}{}
	for op := range a {
		out[op] = struct{}{}
	}
	for op := range b {
		out[op] = struct{}{}
	}
	return out
}

// applyToLeaf applies every operation configured for key against base, in
// applyOrder, skipping operations not present.
func applyToLeaf(ops map[transform.Op]transform.Value, base transform.Value) transform.Value {
	result := base
	for _, op := range applyOrder {
		operand, ok := ops[op]
		if !ok {
			continue
		}
		result = transform.Apply(op, result, operand)
	}
	return result
}
