package substitute

import "github.com/PetroDE/control/internal/transform"

// Tree substitutes every string leaf of a YAML-decoded value (the shapes
// produced by gopkg.in/yaml.v3: map[string]interface{}, []interface{},
// string, and scalar types passed through unchanged) using mapping. List and
// map structure is preserved.
func Tree(v interface{}, mapping Mapping) interface{} {
	switch t := v.(type) {
	case string:
		return String(t, mapping)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, child := range t {
			out[k] = Tree(child, mapping)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, child := range t {
			out[i] = Tree(child, mapping)
		}
		return out
	default:
		return v
	}
}

// Value substitutes every string leaf of a transform.Value tree.
func Value(v transform.Value, mapping Mapping) transform.Value {
	switch v.Kind {
	case transform.KindScalar:
		return transform.NewScalar(String(v.Scalar, mapping))
	case transform.KindList:
		out := make([]string, len(v.List))
		for i, s := range v.List {
			out[i] = String(s, mapping)
		}
		return transform.NewList(out)
	case transform.KindMap:
		out := make(map[string]transform.Value, len(v.Map))
		for k, child := range v.Map {
			out[k] = Value(child, mapping)
		}
		return transform.NewMap(out)
	default:
		return v
	}
}
