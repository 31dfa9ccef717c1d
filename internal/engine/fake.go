package engine

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Fake is an in-memory Engine used by dispatcher tests in place of a real
// container runtime, recording every call it receives.
type Fake struct {
	mu sync.Mutex

	Containers map[string]*ContainerInfo
	Images     map[string]ImageInfo
	Volumes    map[string]bool
	Calls      []string

	nextID int
}

var _ Engine = (*Fake)(nil)

// NewFake builds an empty Fake engine.
func NewFake() *Fake {
	return &Fake{
		Containers: map[string]*ContainerInfo{},
		Images:     map[string]ImageInfo{},
		Volumes:    map[string]bool{},
	}
}

func (f *Fake) record(call string) {
	f.Calls = append(f.Calls, call)
}

func (f *Fake) CreateContainer(_ context.Context, spec ContainerSpec) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("fake-%d", f.nextID)
	f.Containers[id] = &ContainerInfo{ID: id, Name: spec.Name, Image: spec.Image}
	f.record("create:" + spec.Name)
	return id, nil
}

func (f *Fake) StartContainer(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.Containers[id]
	if !ok {
		return ErrNotFound
	}
	c.Running = true
	f.record("start:" + id)
	return nil
}

func (f *Fake) StopContainer(_ context.Context, id string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.Containers[id]
	if !ok {
		return ErrNotFound
	}
	c.Running = false
	f.record("stop:" + id)
	return nil
}

func (f *Fake) KillContainer(_ context.Context, id, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Containers[id]; !ok {
		return ErrNotFound
	}
	f.record("kill:" + id)
	return nil
}

func (f *Fake) RemoveContainer(_ context.Context, id string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Containers[id]; !ok {
		return ErrNotFound
	}
	delete(f.Containers, id)
	f.record("remove:" + id)
	return nil
}

// InspectContainer accepts either a generated ID or the container's name,
// the same dual lookup the real engine's inspect endpoint supports.
func (f *Fake) InspectContainer(_ context.Context, id string) (ContainerInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.Containers[id]; ok {
		return *c, nil
	}
	for _, c := range f.Containers {
		if c.Name == id {
			return *c, nil
		}
	}
	return ContainerInfo{}, ErrNotFound
}

func (f *Fake) Exec(_ context.Context, spec ExecSpec, stdout, _ io.Writer) (int, error) {
	f.record("exec:" + spec.ContainerID)
	if stdout != nil {
		fmt.Fprintf(stdout, "fake exec: %v\n", spec.Command)
	}
	return 0, nil
}

func (f *Fake) Build(_ context.Context, spec BuildSpec, _ io.Writer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Images[spec.Tag] = ImageInfo{ID: "fake-image-" + spec.Tag}
	f.record("build:" + spec.Tag)
	return nil
}

func (f *Fake) Pull(_ context.Context, imageRef string, _ io.Writer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Images[imageRef] = ImageInfo{ID: "fake-image-" + imageRef}
	f.record("pull:" + imageRef)
	return nil
}

func (f *Fake) InspectImage(_ context.Context, ref string) (ImageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.Images[ref]
	if !ok {
		return ImageInfo{}, ErrNotFound
	}
	return info, nil
}

func (f *Fake) RemoveVolume(_ context.Context, name string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Volumes[name] {
		return ErrNotFound
	}
	delete(f.Volumes, name)
	f.record("removevolume:" + name)
	return nil
}
