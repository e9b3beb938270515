// Package geometry_cache shares GPU vertex and index buffers between meshes built from the same
// geometry. Entries are keyed by geometry.ID and reference counted; the last release frees the buffers.
package geometry_cache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/rampart/engine/geometry"
	"github.com/Carmen-Shannon/rampart/engine/renderer"
)

// ErrUnknownGeometry is returned when releasing an ID with no live entry.
var ErrUnknownGeometry = errors.New("geometry_cache: unknown geometry")

// Entry is the shared GPU state for one geometry.
type Entry struct {
	Vertices   renderer.BufferHandle
	Indices    renderer.BufferHandle
	IndexCount uint32
	Triangles  int
	uses       int
}

type cache struct {
	mu      *sync.Mutex
	dev     renderer.Device
	entries map[geometry.ID]*Entry
}

// Cache hands out shared buffers for geometries on one device.
type Cache interface {
	// Acquire returns the buffers for geom, uploading them on first use and incrementing the use count
	// otherwise.
	//
	// Parameters:
	//   - geom: the geometry to draw
	//
	// Returns:
	//   - Entry: a copy of the shared entry
	//   - error: an upload error; the cache is unchanged on failure
	Acquire(geom *geometry.Geometry) (Entry, error)

	// Release decrements the use count of a geometry and frees its buffers at zero.
	//
	// Parameters:
	//   - id: the geometry ID passed to Acquire
	//
	// Returns:
	//   - error: ErrUnknownGeometry if no entry is live for id
	Release(id geometry.ID) error

	// Uses returns the current use count for a geometry, zero when absent.
	//
	// Parameters:
	//   - id: the geometry ID
	//
	// Returns:
	//   - int: the use count
	Uses(id geometry.ID) int

	// Len returns the number of live entries.
	//
	// Returns:
	//   - int: the entry count
	Len() int
}

var _ Cache = &cache{}

// NewCache creates an empty cache uploading through dev.
//
// Parameters:
//   - dev: the device owning the buffers
//
// Returns:
//   - Cache: the new cache
func NewCache(dev renderer.Device) Cache {
	if dev == nil {
		panic("geometry_cache: NewCache requires a device")
	}
	return &cache{
		mu:      &sync.Mutex{},
		dev:     dev,
		entries: make(map[geometry.ID]*Entry),
	}
}

func (c *cache) Acquire(geom *geometry.Geometry) (Entry, error) {
	if geom == nil {
		panic("geometry_cache: Acquire requires a geometry")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[geom.ID()]; ok {
		e.uses++
		return *e, nil
	}

	vb, err := c.dev.CreateBuffer(renderer.BufferKindVertex, geom.VertexBytes())
	if err != nil {
		return Entry{}, fmt.Errorf("failed to upload vertices for geometry %d: %w", geom.ID(), err)
	}
	ib, err := c.dev.CreateBuffer(renderer.BufferKindIndex, geom.IndexBytes())
	if err != nil {
		c.dev.ReleaseBuffer(vb)
		return Entry{}, fmt.Errorf("failed to upload indices for geometry %d: %w", geom.ID(), err)
	}

	e := &Entry{
		Vertices:   vb,
		Indices:    ib,
		IndexCount: uint32(len(geom.Indices)),
		Triangles:  geom.TriangleCount(),
		uses:       1,
	}
	c.entries[geom.ID()] = e
	return *e, nil
}

func (c *cache) Release(id geometry.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownGeometry, id)
	}
	e.uses--
	if e.uses > 0 {
		return nil
	}
	c.dev.ReleaseBuffer(e.Vertices)
	c.dev.ReleaseBuffer(e.Indices)
	delete(c.entries, id)
	return nil
}

func (c *cache) Uses(id geometry.ID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		return e.uses
	}
	return 0
}

func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
