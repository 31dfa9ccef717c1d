// Package imageref parses and renders container image references of the
// form [registry[:port]/]image[:tag]. Parsing intentionally accepts more
// than the engine would ever accept as valid (slashes in the registry
// portion, adjacent periods); character-class validation is delegated to
// the engine.
package imageref

import (
	"fmt"
	"strings"
)

// DefaultRegistryHost and IndexHostname are the well-known Docker Hub
// identities. Nothing in this package consults them; the dispatcher runs
// no registry freshness probe.
const (
	DefaultRegistryHost = "registry-1.docker.io"
	IndexHostname       = "index.docker.io"
)

// Reference is an image reference split into its four fields.
type Reference struct {
	Domain string
	Port   string
	Image  string
	Tag    string
}

// looksLikeDomain reports whether the first path segment of a reference is
// the registry domain rather than the start of the image path: it contains
// a dot, a colon (port), or is the literal "localhost". This mirrors
// repository.py's matcher without relying on a lookahead RE2 cannot express.
func looksLikeDomain(segment string) bool {
	if segment == "localhost" {
		return true
	}
	return strings.ContainsAny(segment, ".:")
}

// Parse splits s into a Reference. It does not validate character classes;
// it accepts a superset of valid names and defers rejection to the engine.
func Parse(s string) (Reference, error) {
	if s == "" {
		return Reference{}, fmt.Errorf("imageref: empty reference")
	}
	ref := Reference{}
	rest := s
	if idx := strings.Index(rest, "/"); idx >= 0 && looksLikeDomain(rest[:idx]) {
		domainPart := rest[:idx]
		rest = rest[idx+1:]
		if c := strings.Index(domainPart, ":"); c >= 0 {
			ref.Domain = domainPart[:c]
			ref.Port = domainPart[c+1:]
		} else {
			ref.Domain = domainPart
		}
	}
	// Remaining colon, if any, separates image path from tag.
	if c := strings.LastIndex(rest, ":"); c >= 0 {
		ref.Image = rest[:c]
		ref.Tag = rest[c+1:]
	} else {
		ref.Image = rest
	}
	if ref.Image == "" {
		return Reference{}, fmt.Errorf("imageref: no image path in %q", s)
	}
	if ref.Tag == "" {
		ref.Tag = "latest"
	}
	return ref, nil
}

// Registry is the concatenation host[:port], empty when there is no domain.
func (r Reference) Registry() string {
	if r.Domain == "" {
		return ""
	}
	if r.Port == "" {
		return r.Domain
	}
	return r.Domain + ":" + r.Port
}

// PullImageName concatenates registry/image with no tag. When Registry is
// empty, it is just Image.
func (r Reference) PullImageName() string {
	if reg := r.Registry(); reg != "" {
		return reg + "/" + r.Image
	}
	return r.Image
}

// String renders the reference back to [registry[:port]/]image[:tag].
func (r Reference) String() string {
	s := r.Image
	if reg := r.Registry(); reg != "" {
		s = reg + "/" + s
	}
	if r.Tag != "" {
		s = s + ":" + r.Tag
	}
	return s
}

// IsOfficial reports whether the reference points at the public Docker Hub
// (empty registry, or explicitly one of the hub's well-known hostnames).
func (r Reference) IsOfficial() bool {
	switch r.Registry() {
	case "", DefaultRegistryHost, IndexHostname:
		return true
	default:
		return false
	}
}

// Equal compares two references field-wise.
func (r Reference) Equal(o Reference) bool {
	return r.Domain == o.Domain && r.Port == o.Port && r.Image == o.Image && r.Tag == o.Tag
}
