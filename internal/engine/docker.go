package engine

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
)

// Docker backs Engine with a real docker/docker/client connection,
// grounded on composeService's apiClient()-mediated calls in
// pkg/compose/convergence.go, down.go, build_classic.go, and hook.go.
type Docker struct {
	api client.APIClient
}

var _ Engine = (*Docker)(nil)

// NewDocker builds a Docker engine from the environment (DOCKER_HOST,
// DOCKER_CERT_PATH, ...), the same discovery client.NewClientWithOpts
// performs for every docker-compose invocation.
func NewDocker() (*Docker, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "engine: connecting to container engine")
	}
	return &Docker{api: cli}, nil
}

func (d *Docker) CreateContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	cfg := &container.Config{
		Image:      spec.Image,
		Cmd:        spec.Command,
		Env:        spec.Env,
		Labels:     spec.Labels,
		Hostname:   spec.Hostname,
		WorkingDir: spec.WorkingDir,
		User:       spec.User,
		Tty:        spec.Tty,
		OpenStdin:  spec.OpenStdin,
	}
	portBindings := nat.PortMap{}
	for port, bindings := range spec.PortBindings {
		var pbs []nat.PortBinding
		for _, hostPort := range bindings {
			pbs = append(pbs, nat.PortBinding{HostPort: hostPort})
		}
		portBindings[nat.Port(port)] = pbs
	}
	hostCfg := &container.HostConfig{
		Binds:        spec.Binds,
		Privileged:   spec.Privileged,
		DNS:          spec.DNS,
		ExtraHosts:   spec.ExtraHosts,
		PortBindings: portBindings,
	}

	resp, err := d.api.ContainerCreate(ctx, cfg, hostCfg, &network.NetworkingConfig{}, nil, spec.Name)
	if err != nil {
		return "", classify(err)
	}
	return resp.ID, nil
}

func (d *Docker) StartContainer(ctx context.Context, id string) error {
	return classify(d.api.ContainerStart(ctx, id, container.StartOptions{}))
}

func (d *Docker) StopContainer(ctx context.Context, id string, timeout int) error {
	return classify(d.api.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout}))
}

func (d *Docker) KillContainer(ctx context.Context, id, signal string) error {
	return classify(d.api.ContainerKill(ctx, id, signal))
}

func (d *Docker) RemoveContainer(ctx context.Context, id string, force bool) error {
	return classify(d.api.ContainerRemove(ctx, id, container.RemoveOptions{Force: force}))
}

func (d *Docker) InspectContainer(ctx context.Context, id string) (ContainerInfo, error) {
	inspected, err := d.api.ContainerInspect(ctx, id)
	if err != nil {
		return ContainerInfo{}, classify(err)
	}
	info := ContainerInfo{ID: inspected.ID, Name: inspected.Name, Created: inspected.Created}
	if inspected.State != nil {
		info.Running = inspected.State.Running
	}
	if inspected.Config != nil {
		info.Image = inspected.Config.Image
	}
	return info, nil
}

func (d *Docker) Exec(ctx context.Context, spec ExecSpec, stdout, stderr io.Writer) (int, error) {
	created, err := d.api.ContainerExecCreate(ctx, spec.ContainerID, container.ExecOptions{
		Cmd:          spec.Command,
		Tty:          spec.Tty,
		AttachStdin:  spec.AttachStdin,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return -1, classify(err)
	}

	attached, err := d.api.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{Tty: spec.Tty})
	if err != nil {
		return -1, classify(err)
	}
	defer attached.Close()

	if _, err := io.Copy(stdout, attached.Reader); err != nil && err != io.EOF {
		return -1, err
	}

	inspected, err := d.api.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return -1, classify(err)
	}
	return inspected.ExitCode, nil
}

func (d *Docker) Build(ctx context.Context, spec BuildSpec, progress io.Writer) error {
	buildContext, err := tarDirectory(spec.ContextDir)
	if err != nil {
		return err
	}
	defer buildContext.Close()

	resp, err := d.api.ImageBuild(ctx, buildContext, types.ImageBuildOptions{
		Tags:       []string{spec.Tag},
		Dockerfile: filepath.Base(spec.Dockerfile),
		BuildArgs:  spec.BuildArgs,
		NoCache:    spec.NoCache,
		Remove:     spec.Remove,
	})
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		fmt.Fprintf(progress, "%s\n", raw)
		var event struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &event) == nil && event.Error != "" {
			return errors.New(event.Error)
		}
	}
}

func (d *Docker) Pull(ctx context.Context, imageRef string, progress io.Writer) error {
	reader, err := d.api.ImagePull(ctx, imageRef, image.PullOptions{})
	if err != nil {
		return classify(err)
	}
	defer reader.Close()

	_, err = io.Copy(progress, reader)
	return err
}

func (d *Docker) InspectImage(ctx context.Context, ref string) (ImageInfo, error) {
	inspected, _, err := d.api.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		return ImageInfo{}, classify(err)
	}
	return ImageInfo{ID: inspected.ID, Created: inspected.Created}, nil
}

func (d *Docker) RemoveVolume(ctx context.Context, name string, force bool) error {
	return classify(d.api.VolumeRemove(ctx, name, force))
}

// tarDirectory streams a build context directory as a gzipped tar, the
// format ImageBuild expects as its io.Reader argument.
func tarDirectory(dir string) (io.ReadCloser, error) {
	pr, pw := io.Pipe()
	go func() {
		gz := gzip.NewWriter(pw)
		tw := tar.NewWriter(gz)
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			if rel == "." {
				return nil
			}
			hdr, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return err
			}
			hdr.Name = rel
			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = io.Copy(tw, bufio.NewReader(f))
			return err
		})
		if err == nil {
			err = tw.Close()
		}
		if err == nil {
			err = gz.Close()
		}
		pw.CloseWithError(err)
	}()
	return pr, nil
}
