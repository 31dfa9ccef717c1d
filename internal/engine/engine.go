// Package engine wraps the container engine behind the opaque capability
// set the dispatcher needs: create, start, stop, kill, remove, exec, build,
// pull, inspect, and volume removal. Grounded on docker-compose's
// composeService, but trimmed to the single-container operations this
// project needs — no network/project-wide convergence.
package engine

import (
	"context"
	"io"
)

// ContainerSpec is the engine-facing container-create payload: the three
// buckets a Service assembles via PrepareContainerOptions, already split
// into volumes/binds, plus the image reference to run.
type ContainerSpec struct {
	Name    string
	Image   string
	Command []string
	Env     []string
	Labels  map[string]string
	Binds   []string
	Mounts  []string

	Hostname   string
	WorkingDir string
	User       string
	Tty        bool
	OpenStdin  bool
	Privileged bool

	DNS          []string
	ExtraHosts   []string
	PortBindings map[string][]string
}

// BuildSpec is the engine-facing image-build payload.
type BuildSpec struct {
	ContextDir string
	Dockerfile string
	Tag        string
	BuildArgs  map[string]*string
	NoCache    bool
	Remove     bool
}

// ExecSpec describes an ephemeral command to run inside a running
// container.
type ExecSpec struct {
	ContainerID string
	Command     []string
	Tty         bool
	AttachStdin bool
}

// ContainerInfo is the subset of container-inspect data the dispatcher
// reasons about: identity, running state, and the image it was created
// from (so the freshness probe can compare built-vs-running).
type ContainerInfo struct {
	ID      string
	Name    string
	Running bool
	Image   string
	Created string
}

// ImageInfo is the subset of image-inspect data the freshness probe reads.
type ImageInfo struct {
	ID      string
	Created string
}

// Engine is every operation the dispatcher drives a container lifecycle
// through. A single implementation (Docker) backs it in production;
// dispatcher tests substitute a fake.
type Engine interface {
	CreateContainer(ctx context.Context, spec ContainerSpec) (string, error)
	StartContainer(ctx context.Context, id string) error
	StopContainer(ctx context.Context, id string, timeout int) error
	KillContainer(ctx context.Context, id, signal string) error
	RemoveContainer(ctx context.Context, id string, force bool) error
	InspectContainer(ctx context.Context, id string) (ContainerInfo, error)

	Exec(ctx context.Context, spec ExecSpec, stdout, stderr io.Writer) (int, error)

	Build(ctx context.Context, spec BuildSpec, progress io.Writer) error
	Pull(ctx context.Context, image string, progress io.Writer) error
	InspectImage(ctx context.Context, ref string) (ImageInfo, error)

	RemoveVolume(ctx context.Context, name string, force bool) error
}
