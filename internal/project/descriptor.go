// Package project implements the recursive project-file resolver: reading
// the root descriptor, following controlfile includes, distinguishing
// group from unit services, merging ancestor options, and emitting a flat
// Registry plus the synthetic `required`/`optional` groups.
package project

import (
	"os"
	"path/filepath"

	"github.com/PetroDE/control/internal/imageref"
	"gopkg.in/yaml.v3"
)

// readDescriptor reads and decodes a YAML project file. An unparsable or
// missing file is *invalid-descriptor*; an empty document is too.
func readDescriptor(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, invalidDescriptor(path, err.Error())
	}
	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, invalidDescriptor(path, "could not parse as YAML: "+err.Error())
	}
	if len(data) == 0 {
		return nil, invalidDescriptor(path, "empty document")
	}
	return data, nil
}

// wrapAsUnit wraps a services-less document as a single-unit descriptor,
// per §4.D step 2 ("If the document lacks a services key, wrap it as a
// single-unit descriptor whose name is guessed from the unit").
func wrapAsUnit(data map[string]interface{}) map[string]interface{} {
	name := guessUnitName(data)
	return map[string]interface{}{
		"services": map[string]interface{}{
			name: data,
		},
	}
}

func guessUnitName(data map[string]interface{}) string {
	if s, ok := data["service"].(string); ok && s != "" {
		return s
	}
	if container, ok := data["container"].(map[string]interface{}); ok {
		if name, ok := container["name"].(string); ok && name != "" {
			return name
		}
	}
	if img, ok := data["image"].(string); ok && img != "" {
		if ref, err := imageref.Parse(img); err == nil {
			return ref.Image
		}
		return img
	}
	return "service"
}

// followControlfile resolves a `controlfile` redirect: replaces data with
// the document it points to, relative to the including file's directory.
// The returned path is the new source path for cycle detection and for
// resolving further relative references.
func followControlfile(data map[string]interface{}, includingFile string) (newData map[string]interface{}, newPath string, redirected bool, err error) {
	ref, ok := data["controlfile"].(string)
	if !ok || ref == "" {
		return data, includingFile, false, nil
	}
	target := ref
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(includingFile), ref)
	}
	next, err := readDescriptor(target)
	if err != nil {
		return nil, "", false, err
	}
	return next, target, true, nil
}

// resolveDockerfile implements the source-descriptor location fallback
// order from §4.D: an explicit `dockerfile` field (scalar applies to both
// environments, map may set dev/prod individually); failing that, a bare
// Dockerfile next to the unit's source file (used for both); failing that,
// Dockerfile.dev/Dockerfile.prod individually; otherwise the unit is
// start-only. The bare-Dockerfile branch is checked first even when the
// dev/prod pair also exists — kept for literal compatibility with the
// original's fallback order, see DESIGN.md.
func resolveDockerfile(raw interface{}, sourceDir string) map[string]string {
	result := map[string]string{}
	switch t := raw.(type) {
	case string:
		path := resolveRelative(sourceDir, t)
		result["dev"] = path
		result["prod"] = path
		return result
	case map[string]interface{}:
		if dev, ok := t["dev"].(string); ok {
			result["dev"] = resolveRelative(sourceDir, dev)
		}
		if prod, ok := t["prod"].(string); ok {
			result["prod"] = resolveRelative(sourceDir, prod)
		}
		if len(result) > 0 {
			return result
		}
	}

	bare := filepath.Join(sourceDir, "Dockerfile")
	if fileExists(bare) {
		result["dev"] = bare
		result["prod"] = bare
		return result
	}
	dev := filepath.Join(sourceDir, "Dockerfile.dev")
	prod := filepath.Join(sourceDir, "Dockerfile.prod")
	if fileExists(dev) {
		result["dev"] = dev
	}
	if fileExists(prod) {
		result["prod"] = prod
	}
	return result
}

// resolveRelative joins an explicit dockerfile path to the unit's source
// directory when it isn't already absolute, the same rule the bare/dev/prod
// fallback paths below already follow.
func resolveRelative(sourceDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(sourceDir, path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
