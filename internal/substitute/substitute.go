// Package substitute walks a descriptor's value tree and interpolates
// `{NAME}` tokens into every string leaf. Unlike compose-go's `${NAME}`
// dollar-form template language, this project file uses a bare brace form
// with no default-value or required-value modifiers.
package substitute

import (
	"regexp"

	"github.com/sirupsen/logrus"
)

var braced = regexp.MustCompile(`\{([_a-zA-Z][_a-zA-Z0-9]*)\}`)

// Mapping resolves a variable name to its value and whether it is defined.
type Mapping func(name string) (string, bool)

// MapFromVars builds a Mapping over a plain map, the common case.
func MapFromVars(vars map[string]string) Mapping {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

// String interpolates every `{NAME}` token in s using mapping. A reference
// to an undefined name is a substitution-miss: per §4.C and the open
// question in §9, the miss is swallowed and the original token is left in
// place rather than erroring, so partially-templated descriptors remain
// loadable. Misses are logged at debug for visibility.
func String(s string, mapping Mapping) string {
	return braced.ReplaceAllStringFunc(s, func(token string) string {
		name := token[1 : len(token)-1]
		if v, ok := mapping(name); ok {
			return v
		}
		logrus.Debugf("substitute: no value for variable %q, leaving %q unresolved", name, token)
		return token
	})
}

// ExtractVariables returns the set of variable names referenced anywhere in
// s, used to detect residual unresolved tokens (§8 testable property: no
// string leaf still contains an unsubstituted variable token).
func ExtractVariables(s string) []string {
	matches := braced.FindAllStringSubmatch(s, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// HasUnresolved reports whether s still contains a `{NAME}` token after a
// substitution pass — i.e. a name the mapping did not define.
func HasUnresolved(s string) bool {
	return braced.MatchString(s)
}
