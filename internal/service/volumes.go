package service

import "strings"

// setVolumes implements the volumes pseudo-key's write side: a list stores
// under shared; a map updates dev/prod/shared selectively, grounded on
// UniService.__setitem__'s `_split_volumes` companion behavior generalized
// to the dev/prod/shared scoping §3 describes for the Volumes field.
func (s *Service) setVolumes(value interface{}) error {
	switch v := value.(type) {
	case []string:
		s.Volumes.Shared = append([]string{}, v...)
		return nil
	case []interface{}:
		s.Volumes.Shared = toStringList(v)
		return nil
	case map[string]interface{}:
		if shared, ok := v["shared"]; ok {
			s.Volumes.Shared = toStringList(shared)
		}
		if dev, ok := v["dev"]; ok {
			s.Volumes.Dev = toStringList(dev)
		}
		if prod, ok := v["prod"]; ok {
			s.Volumes.Prod = toStringList(prod)
		}
		return nil
	default:
		return nil
	}
}

// SplitVolumes partitions a volume spec list into container-side mount
// paths and host-binding specs, grounded on uniservice.py's _split_volumes:
// a bind is any spec containing ":"; everything else is a bare container
// path. The container-path list always has one entry per input spec (the
// last colon-separated component for a bind, the spec itself otherwise);
// the bind list contains only the specs that had a host component.
func SplitVolumes(volumes []string) (containerPaths, binds []string) {
	containerPaths = make([]string, 0, len(volumes))
	binds = make([]string, 0, len(volumes))
	for _, v := range volumes {
		if strings.Contains(v, ":") {
			binds = append(binds, v)
			parts := strings.Split(v, ":")
			containerPaths = append(containerPaths, parts[len(parts)-1])
		} else {
			containerPaths = append(containerPaths, v)
		}
	}
	return containerPaths, binds
}

// EnvVolumes returns the effective volume list for an environment: shared
// entries followed by the environment-specific ones, matching the read
// side of the volumes pseudo-key (shared+dev+prod) scoped to one
// environment instead of all three.
func (v Volumes) EnvVolumes(env string) []string {
	out := append([]string{}, v.Shared...)
	switch env {
	case "dev":
		out = append(out, v.Dev...)
	case "prod":
		out = append(out, v.Prod...)
	}
	return out
}
