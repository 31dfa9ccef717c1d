package dispatch

// PullPolicy is the tri-valued --pull/--no-pull state: unset defers to the
// per-verb default, the two explicit values always win. Grounded on
// functions.py's `pulling`, which relies on the same None/False/True
// distinction Python gives for free and Go does not.
type PullPolicy int

const (
	PullUnset PullPolicy = iota
	PullAlways
	PullNever
)

// ShouldPull decides whether the upstream image for a build, or the
// service's own image for a start, should be pulled before use. An
// explicit policy always wins; left unset, build verbs default to pulling
// (a fresh build wants a fresh base layer) and every other verb defaults
// to pulling only when the service has no buildable source of its own (an
// image-only service has nothing to build, so keeping it fresh means
// pulling it).
func ShouldPull(policy PullPolicy, verb string, hasBuildableSource bool) bool {
	switch policy {
	case PullAlways:
		return true
	case PullNever:
		return false
	}
	switch verb {
	case "build", "build-prod":
		return true
	default:
		return !hasBuildableSource
	}
}
