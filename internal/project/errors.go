package project

import "github.com/pkg/errors"

// ErrInvalidDescriptor is the typed kind for every malformed or
// semantically incomplete project file condition described in §7: unparsable
// documents, empty documents, missing includes, units missing an image, and
// controlfile cycles.
var ErrInvalidDescriptor = errors.New("invalid project descriptor")

func invalidDescriptor(path, reason string) error {
	return errors.Wrapf(ErrInvalidDescriptor, "%s: %s", path, reason)
}
