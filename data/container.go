// Package data provides thread-safe storage for the StatCan tables API: the
// cubes list and code sets behind atomic pointers for zero-downtime
// refreshes, and an expirable LRU for per-product cube metadata.
package data

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shinysc/statcan-tables-api/interfaces"
	"github.com/shinysc/statcan-tables-api/logging"
	"github.com/shinysc/statcan-tables-api/statcan/entities"
)

// Compile-time check to ensure Container implements DataStore
var _ interfaces.DataStore = (*Container)(nil)

// Container holds all the data with atomic pointers for zero-downtime updates
type Container struct {
	cubes           atomic.Value // []entities.Cube
	cubesMap        atomic.Value // map[int]entities.Cube
	codeSets        atomic.Value // *entities.CodeSets
	metadata        *expirable.LRU[int, *entities.CubeMetadata]
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewContainer creates a Container with empty data. metadataCacheSize bounds
// the number of cached cube metadata entries and metadataTTL their lifetime;
// stale metadata simply falls out and is re-fetched on demand.
func NewContainer(metadataCacheSize int, metadataTTL time.Duration) *Container {
	if metadataCacheSize <= 0 {
		metadataCacheSize = 128
	}

	c := &Container{
		metadata: expirable.NewLRU[int, *entities.CubeMetadata](metadataCacheSize, nil, metadataTTL),
	}
	c.cubes.Store(make([]entities.Cube, 0))
	c.cubesMap.Store(make(map[int]entities.Cube))
	c.codeSets.Store((*entities.CodeSets)(nil))
	c.lastUpdated.Store(time.Time{})
	c.serverStartTime.Store(time.Now())
	return c
}

// Thread-safe getters with type check

// GetCubes returns the current cubes list snapshot.
func (c *Container) GetCubes() []entities.Cube {
	if v := c.cubes.Load(); v != nil {
		if cubes, ok := v.([]entities.Cube); ok {
			return cubes
		}
	}

	logging.Warn("Cubes list is empty or invalid")
	return []entities.Cube{}
}

// GetCubesMap returns the productId lookup map for O(1) access.
func (c *Container) GetCubesMap() map[int]entities.Cube {
	if v := c.cubesMap.Load(); v != nil {
		if cubesMap, ok := v.(map[int]entities.Cube); ok {
			return cubesMap
		}
	}

	logging.Warn("Cubes map is empty or invalid")
	return make(map[int]entities.Cube)
}

// GetCodeSets returns the current code sets, or nil before the first refresh.
func (c *Container) GetCodeSets() *entities.CodeSets {
	if v := c.codeSets.Load(); v != nil {
		if codeSets, ok := v.(*entities.CodeSets); ok {
			return codeSets
		}
	}
	return nil
}

// CachedMetadata returns cached cube metadata for a productId, if present
// and not expired.
func (c *Container) CachedMetadata(productID int) (*entities.CubeMetadata, bool) {
	return c.metadata.Get(productID)
}

// StoreMetadata caches cube metadata for a productId.
func (c *Container) StoreMetadata(productID int, md *entities.CubeMetadata) {
	if md == nil {
		return
	}
	c.metadata.Add(productID, md)
}

// GetLastUpdated returns the time of the last successful cubes refresh.
func (c *Container) GetLastUpdated() time.Time {
	if v := c.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating reports whether a refresh is in progress.
func (c *Container) IsUpdating() bool {
	return c.updating.Load()
}

// GetServerStartTime returns when the container was created.
func (c *Container) GetServerStartTime() time.Time {
	if v := c.serverStartTime.Load(); v != nil {
		if start, ok := v.(time.Time); ok {
			return start
		}
	}
	return time.Time{}
}

// UpdateData atomically swaps in a fresh cubes snapshot. A nil codeSets
// keeps the previous code sets, so a partial refresh never wipes data.
func (c *Container) UpdateData(cubes []entities.Cube, cubesMap map[int]entities.Cube, codeSets *entities.CodeSets) {
	c.cubes.Store(cubes)
	c.cubesMap.Store(cubesMap)
	if codeSets != nil {
		c.codeSets.Store(codeSets)
	}
	c.lastUpdated.Store(time.Now())
}

// BeginUpdate marks an update as started; returns false if one is already
// running.
func (c *Container) BeginUpdate() bool {
	return c.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the running update as finished.
func (c *Container) EndUpdate() {
	c.updating.Store(false)
}
