// Package service models a resolved unit service as three buckets
// (service-level metadata, container-create options, host-config options)
// with alias normalization and option-domain classification, grounded on
// UniService in the original control/service/uniservice.py.
package service

import (
	"fmt"

	"github.com/PetroDE/control/internal/imageref"
	"github.com/pkg/errors"
)

// ErrUnknownOption is returned by Set when the key does not belong to any
// recognized domain.
var ErrUnknownOption = errors.New("service: unknown option")

// ErrMissing is returned by Get when the key is not present.
var ErrMissing = errors.New("service: option not present")

// Volumes holds the three buckets a volume spec list can be scoped to.
// shared applies to every environment; dev/prod are environment specific.
type Volumes struct {
	Shared []string
	Dev    []string
	Prod   []string
}

// EventHook is either a single shell command (applies to every environment)
// or an environment-scoped map (dev/prod).
type EventHook struct {
	Scalar string
	Env    map[string]string
}

// IsSet reports whether any hook command was configured.
func (h EventHook) IsSet() bool {
	return h.Scalar != "" || len(h.Env) > 0
}

// For resolves the hook command for a given environment, scalar hooks
// applying regardless of environment.
func (h EventHook) For(env string) string {
	if h.Scalar != "" {
		return h.Scalar
	}
	return h.Env[env]
}

// Service is a resolved unit service: identity, classification, and the
// three option buckets container/host/service-level.
type Service struct {
	Name            string
	SourcePath      string
	Image           imageref.Reference
	Required        bool
	ExpectedTimeout int

	// Dockerfile per environment; empty means start-only.
	Dockerfile map[string]string
	// FromLine override per environment.
	FromLine map[string]string

	Container  map[string]interface{}
	HostConfig map[string]interface{}

	Volumes Volumes

	EnvFile  string
	Commands map[string]string
	Open     []string

	Prebuild  EventHook
	Postbuild EventHook

	// requiredSet records whether an explicit "required" key has already
	// been applied, so a later "optional" key cannot override it regardless
	// of the order descriptor keys are visited in.
	requiredSet bool
}

// New builds a Service with the defaults the original's UniService
// constructor applies before any container configuration is read:
// ExpectedTimeout=10, Required=true (the "opt-out" default), and empty
// buckets ready to receive container-config keys.
func New(name string, ref imageref.Reference) *Service {
	return &Service{
		Name:            name,
		Image:           ref,
		Required:        true,
		ExpectedTimeout: 10,
		Dockerfile:      map[string]string{},
		FromLine:        map[string]string{},
		Container:       map[string]interface{}{},
		HostConfig:      map[string]interface{}{},
		Commands:        map[string]string{},
	}
}

// Buildable reports whether the service has a source descriptor for any
// environment.
func (s *Service) Buildable() bool {
	return len(s.Dockerfile) > 0
}

// Startable reports whether the service has any container-create or
// host-config options.
func (s *Service) Startable() bool {
	return len(s.Container) > 0 || len(s.HostConfig) > 0
}

// Get reads a key, applying alias rewriting and domain routing. volumes is
// the concatenation shared+dev+prod.
func (s *Service) Get(key string) (interface{}, error) {
	key = resolveAlias(key)
	switch classify(key) {
	case domainVolumesPseudo:
		out := append(append(append([]string{}, s.Volumes.Shared...), s.Volumes.Dev...), s.Volumes.Prod...)
		return out, nil
	case domainContainer:
		v, ok := s.Container[key]
		if !ok {
			return nil, errors.Wrapf(ErrMissing, "key %q", key)
		}
		return v, nil
	case domainHostConfig:
		v, ok := s.HostConfig[key]
		if !ok {
			return nil, errors.Wrapf(ErrMissing, "key %q", key)
		}
		return v, nil
	case domainServiceLevel:
		return s.getServiceLevel(key)
	default:
		return nil, errors.Wrapf(ErrMissing, "key %q", key)
	}
}

// Set writes a key, applying alias rewriting and domain routing. Setting
// volumes with a list stores it under shared; setting it with a map updates
// dev/prod/shared selectively (keys other than dev/prod/shared are
// ignored).
func (s *Service) Set(key string, value interface{}) error {
	key = resolveAlias(key)
	switch classify(key) {
	case domainVolumesPseudo:
		return s.setVolumes(value)
	case domainContainer:
		s.Container[key] = value
		return nil
	case domainHostConfig:
		s.HostConfig[key] = value
		return nil
	case domainServiceLevel:
		return s.setServiceLevel(key, value)
	default:
		return errors.Wrapf(ErrUnknownOption, "key %q", key)
	}
}

// Delete removes a key from whichever bucket holds it.
func (s *Service) Delete(key string) error {
	key = resolveAlias(key)
	switch classify(key) {
	case domainContainer:
		delete(s.Container, key)
		return nil
	case domainHostConfig:
		delete(s.HostConfig, key)
		return nil
	case domainServiceLevel:
		return errors.Wrapf(ErrUnknownOption, "service-level key %q cannot be deleted", key)
	default:
		return errors.Wrapf(ErrMissing, "key %q", key)
	}
}

func (s *Service) getServiceLevel(key string) (interface{}, error) {
	switch key {
	case "image":
		return s.Image, nil
	case "dockerfile":
		return s.Dockerfile, nil
	case "expected_timeout":
		return s.ExpectedTimeout, nil
	case "required":
		return s.Required, nil
	case "service":
		return s.Name, nil
	case "commands":
		return s.Commands, nil
	case "open":
		return s.Open, nil
	case "env_file":
		return s.EnvFile, nil
	case "fromline":
		return s.FromLine, nil
	default:
		return nil, errors.Wrapf(ErrMissing, "key %q", key)
	}
}

func (s *Service) setServiceLevel(key string, value interface{}) error {
	switch key {
	case "expected_timeout":
		n, ok := toInt(value)
		if !ok {
			return fmt.Errorf("service: expected_timeout must be a positive integer, got %v", value)
		}
		s.ExpectedTimeout = n
	case "required":
		if b, ok := value.(bool); ok {
			s.Required = b
			s.requiredSet = true
		}
	case "optional":
		// Grounded on service.py's required/optional pop pair: "required"
		// always wins when both are present, regardless of which key this
		// range loop happens to visit first.
		if b, ok := value.(bool); ok && !s.requiredSet {
			s.Required = !b
		}
	case "service":
		if str, ok := value.(string); ok {
			s.Name = str
		}
	case "env_file":
		if str, ok := value.(string); ok {
			s.EnvFile = str
		}
	case "open":
		s.Open = toStringList(value)
	case "commands":
		s.Commands = toStringMap(value)
	case "fromline":
		s.FromLine = toStringMapVal(value)
	default:
		return errors.Wrapf(ErrUnknownOption, "service-level key %q", key)
	}
	return nil
}

func toStringMap(v interface{}) map[string]string {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

func toStringMapVal(v interface{}) map[string]string {
	if m := toStringMap(v); m != nil {
		return m
	}
	return map[string]string{}
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, n > 0
	case int64:
		return int(n), n > 0
	case float64:
		return int(n), n > 0
	default:
		return 0, false
	}
}

func toStringList(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
