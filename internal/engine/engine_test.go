package engine_test

import (
	"context"
	"testing"

	"github.com/PetroDE/control/internal/engine"
	"gotest.tools/v3/assert"
)

func TestFakeCreateStartInspect(t *testing.T) {
	ctx := context.Background()
	e := engine.NewFake()

	id, err := e.CreateContainer(ctx, engine.ContainerSpec{Name: "web", Image: "busybox:latest"})
	assert.NilError(t, err)

	assert.NilError(t, e.StartContainer(ctx, id))

	info, err := e.InspectContainer(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, info.Running, true)
	assert.Equal(t, info.Name, "web")
}

func TestFakeStopMissingContainerIsNotFound(t *testing.T) {
	ctx := context.Background()
	e := engine.NewFake()
	err := e.StopContainer(ctx, "nope", 10)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestFakeRecordsCallsInOrder(t *testing.T) {
	ctx := context.Background()
	e := engine.NewFake()
	id, _ := e.CreateContainer(ctx, engine.ContainerSpec{Name: "web"})
	_ = e.StartContainer(ctx, id)
	_ = e.StopContainer(ctx, id, 10)
	assert.DeepEqual(t, e.Calls, []string{"create:web", "start:" + id, "stop:" + id})
}
