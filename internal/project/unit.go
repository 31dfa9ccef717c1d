package project

import (
	"path/filepath"

	"github.com/PetroDE/control/internal/imageref"
	"github.com/PetroDE/control/internal/service"
	"github.com/PetroDE/control/internal/substitute"
	"github.com/PetroDE/control/internal/transform"
)

// reservedKeys are the node-level directives consumed by the resolver
// itself rather than passed through to the Service Model.
var reservedKeys = map[string]struct{}{
	"services":    {},
	"vars":        {},
	"options":     {},
	"controlfile": {},
	"image":       {},
	"dockerfile":  {},
}

// buildUnit constructs a resolved Service from a leaf node's substituted
// data, the options accumulated from every enclosing group, and the
// originating file's directory (used to locate fallback Dockerfiles).
func buildUnit(name string, data map[string]interface{}, opts Options, sourcePath string) (*service.Service, error) {
	imgRaw, ok := data["image"].(string)
	if !ok || imgRaw == "" {
		return nil, invalidDescriptor(sourcePath, "unit \""+name+"\" is missing an image")
	}
	ref, err := imageref.Parse(imgRaw)
	if err != nil {
		return nil, invalidDescriptor(sourcePath, err.Error())
	}

	svc := service.New(name, ref)
	svc.SourcePath = sourcePath

	for key, raw := range data {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		switch key {
		case "prebuild":
			svc.Prebuild = parseEventHook(raw)
		case "postbuild":
			svc.Postbuild = parseEventHook(raw)
		default:
			_ = svc.Set(key, raw)
		}
	}

	svc.Dockerfile = resolveDockerfile(data["dockerfile"], filepath.Dir(sourcePath))

	for key, ops := range opts {
		applyOptionToService(svc, key, ops)
	}

	svc.FillInHoles()
	return svc, nil
}

// applyOptionToService reads a Service key's current native value, folds
// it through transform.Value so the accumulated group options can be
// applied, and writes the result back. Unknown/unset keys start from the
// operation's zero Value, matching the original's behavior of treating a
// never-declared option as absent rather than an error.
func applyOptionToService(svc *service.Service, key string, ops map[transform.Op]transform.Value) {
	current, err := svc.Get(key)
	var base transform.Value
	if err == nil {
		base = fromNative(current)
	}
	result := applyToLeaf(ops, base)
	_ = svc.Set(key, toNative(result))
}

// fromNative converts a Service bucket value (string, []string, or
// map[string]interface{}) into a transform.Value.
func fromNative(v interface{}) transform.Value {
	switch t := v.(type) {
	case string:
		return transform.NewScalar(t)
	case []string:
		return transform.NewList(t)
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
			m[k] = fromNative(child)
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

// toNative converts a transform.Value back into a plain Go value a Service
// bucket can hold.
func toNative(v transform.Value) interface{} {
	switch v.Kind {
	case transform.KindScalar:
		return v.Scalar
	case transform.KindList:
		return v.AsList()
	case transform.KindMap:
		out := make(map[string]interface{}, len(v.Map))
		for k, child := range v.Map {
			out[k] = toNative(child)
		}
		return out
	default:
		return nil
	}
}

// parseEventHook reads a prebuild/postbuild declaration: a bare string
// applies to every environment, a map scopes per-environment commands.
func parseEventHook(raw interface{}) service.EventHook {
	switch t := raw.(type) {
	case string:
		return service.EventHook{Scalar: t}
	case map[string]interface{}:
		env := make(map[string]string, len(t))
		for k, v := range t {
			if s, ok := v.(string); ok {
				env[k] = s
			}
		}
		return service.EventHook{Env: env}
	default:
		return service.EventHook{}
	}
}

// substituteAndExtractVars interpolates every `{NAME}` token in a node's
// data using vars, then layers in that node's own `vars` block (which may
// itself reference names from vars) to produce the variable set passed
// down to its children.
func substituteAndExtractVars(data map[string]interface{}, vars map[string]string) (map[string]interface{}, map[string]string) {
	mapping := substitute.MapFromVars(vars)
	substituted, _ := substitute.Tree(data, mapping).(map[string]interface{})

	scoped := toStringMapShallow(data["vars"])
	substitutedScoped := make(map[string]string, len(scoped))
	for k, v := range scoped {
		substitutedScoped[k] = substitute.String(v, mapping)
	}

	merged := overrideVars(vars, substitutedScoped)
	return substituted, merged
}

func toStringMapShallow(raw interface{}) map[string]string {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func overrideVars(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
