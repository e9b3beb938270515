package geometry_cache

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/rampart/engine/geometry"
	"github.com/Carmen-Shannon/rampart/engine/renderer/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameGeometrySharesBuffers(t *testing.T) {
	dev := gputest.NewDevice()
	c := NewCache(dev)
	box := geometry.Box(2, 2, 2)

	a, err := c.Acquire(box)
	require.NoError(t, err)
	b, err := c.Acquire(box)
	require.NoError(t, err)

	assert.Equal(t, a.Vertices, b.Vertices)
	assert.Equal(t, a.Indices, b.Indices)
	assert.Equal(t, 2, dev.BufferUploads, "one vertex and one index upload")
	assert.Equal(t, 2, c.Uses(box.ID()))
	assert.Equal(t, uint32(36), a.IndexCount)
	assert.Equal(t, 12, a.Triangles)

	require.NoError(t, c.Release(box.ID()))
	assert.Len(t, dev.Buffers, 2, "buffers stay while a user remains")
	require.NoError(t, c.Release(box.ID()))
	assert.Empty(t, dev.Buffers)
	assert.Zero(t, c.Len())
}

func TestEqualContentDoesNotShare(t *testing.T) {
	dev := gputest.NewDevice()
	c := NewCache(dev)

	a, err := c.Acquire(geometry.Box(1, 1, 1))
	require.NoError(t, err)
	b, err := c.Acquire(geometry.Box(1, 1, 1))
	require.NoError(t, err)
	assert.NotEqual(t, a.Vertices, b.Vertices)
	assert.Equal(t, 2, c.Len())
}

func TestReleaseUnknown(t *testing.T) {
	c := NewCache(gputest.NewDevice())
	box := geometry.Box(1, 1, 1)
	assert.ErrorIs(t, c.Release(box.ID()), ErrUnknownGeometry)

	_, err := c.Acquire(box)
	require.NoError(t, err)
	require.NoError(t, c.Release(box.ID()))
	assert.ErrorIs(t, c.Release(box.ID()), ErrUnknownGeometry, "counts never go negative")
	assert.Zero(t, c.Uses(box.ID()))
}

func TestAcquireFailureLeavesCacheEmpty(t *testing.T) {
	dev := gputest.NewDevice()
	dev.BufferErr = errors.New("out of memory")
	c := NewCache(dev)

	_, err := c.Acquire(geometry.Sphere(1, 8, 6))
	assert.ErrorContains(t, err, "out of memory")
	assert.Zero(t, c.Len())
}
