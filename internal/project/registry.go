package project

import "github.com/PetroDE/control/internal/service"

// Registry is the flat result of resolving a project file: every unit
// service keyed by its final name, every declared group keyed by its own
// name, and the two synthetic groups partitioning every unit by its
// Required flag.
type Registry struct {
	Units  map[string]*service.Service
	Groups map[string][]string
}

// requiredGroupName and optionalGroupName are the two synthetic groups
// every Registry carries, partitioning the full unit set by Service.Required.
const (
	requiredGroupName = "required"
	optionalGroupName = "optional"
)

func newRegistry() *Registry {
	return &Registry{
		Units:  map[string]*service.Service{},
		Groups: map[string][]string{},
	}
}

// addUnit inserts a resolved unit and folds it into its synthetic
// required/optional group.
func (r *Registry) addUnit(s *service.Service) {
	r.Units[s.Name] = s
	if s.Required {
		r.Groups[requiredGroupName] = append(r.Groups[requiredGroupName], s.Name)
	} else {
		r.Groups[optionalGroupName] = append(r.Groups[optionalGroupName], s.Name)
	}
}

// addGroup records a declared (non-synthetic) group's direct members, by
// name, for later flattening. Membership is not expanded recursively here:
// a group's members may themselves be group names, left to the caller
// (the dispatcher) to flatten at the point of use, per §4.D's note that
// group membership is exposed, not pre-flattened.
func (r *Registry) addGroup(name string, members []string) {
	r.Groups[name] = append(r.Groups[name], members...)
}

// Members returns the direct (one level) member list of a group name, or
// nil if it names no group.
func (r *Registry) Members(name string) []string {
	return r.Groups[name]
}

// Flatten resolves a name to its full set of unit names: if name is itself
// a unit, that singleton; if it names a group, every member recursively
// expanded through any nested group names, de-duplicated, in first-seen
// order.
func (r *Registry) Flatten(name string) []string {
	if _, ok := r.Units[name]; ok {
		return []string{name}
	}
	seen := map[string]bool{}
	var out []string
	var walk func(string)
	walk = func(n string) {
		if seen[n] {
			return
		}
		seen[n] = true
		if _, ok := r.Units[n]; ok {
			out = append(out, n)
			return
		}
		for _, member := range r.Groups[n] {
			walk(member)
		}
	}
	walk(name)
	return out
}
