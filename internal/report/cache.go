package report

import (
	"container/list"
	"sync"
	"time"

	"github.com/fathomscience/fischcast-qc/internal/dataset"
	"github.com/fathomscience/fischcast-qc/internal/domain"
	"github.com/fathomscience/fischcast-qc/internal/observability"
)

// Cache lookup results recorded in metrics.
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultStale = "stale"
)

// Cache memoizes built reports for the newest snapshot it has seen. Entries
// belong to exactly one snapshot version: a request for a newer snapshot
// drops them all, and a request for an older one is built without caching.
// Within a version, the least recently used region is evicted first.
type Cache struct {
	maxEntries int
	metrics    *observability.Metrics

	mu       sync.Mutex
	version  string
	loadedAt time.Time
	byRegion map[int]*list.Element // values are *Report
	recency  *list.List            // front is most recently used
}

// NewCache creates a report cache holding at most maxEntries reports.
func NewCache(maxEntries int, metrics *observability.Metrics) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		metrics:    metrics,
		byRegion:   make(map[int]*list.Element),
		recency:    list.New(),
	}
}

// Get returns the report of region regionID in snap, building it on a miss.
// It reports false when the region does not exist.
func (c *Cache) Get(snap *dataset.Snapshot, regionID int) (*Report, bool) {
	region, ok := snap.Dataset.RegionByID(regionID)
	if !ok {
		return nil, false
	}

	c.mu.Lock()
	if snap.Version != c.version {
		if c.version != "" && snap.LoadedAt.Before(c.loadedAt) {
			c.mu.Unlock()
			c.metrics.ReportCache.WithLabelValues(resultStale).Inc()
			return c.build(snap, region), true
		}
		c.resetLocked(snap)
	}
	if el, ok := c.byRegion[regionID]; ok {
		c.recency.MoveToFront(el)
		c.mu.Unlock()
		c.metrics.ReportCache.WithLabelValues(resultHit).Inc()
		return el.Value.(*Report), true
	}
	c.mu.Unlock()
	c.metrics.ReportCache.WithLabelValues(resultMiss).Inc()

	rep := c.build(snap, region)

	c.mu.Lock()
	defer c.mu.Unlock()
	// A newer snapshot may have arrived while building.
	if c.version != snap.Version {
		return rep, true
	}
	if el, ok := c.byRegion[regionID]; ok {
		c.recency.MoveToFront(el)
		return el.Value.(*Report), true
	}
	c.byRegion[regionID] = c.recency.PushFront(rep)
	for c.recency.Len() > c.maxEntries {
		oldest := c.recency.Back()
		delete(c.byRegion, oldest.Value.(*Report).Region.ID)
		c.recency.Remove(oldest)
	}
	return rep, true
}

// Len is the number of cached reports.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recency.Len()
}

func (c *Cache) build(snap *dataset.Snapshot, region *domain.Region) *Report {
	rep := Build(snap, region)
	c.metrics.SummariesComputed.Add(float64(rep.summaries))
	return rep
}

// resetLocked drops every entry and adopts snap as the current version.
func (c *Cache) resetLocked(snap *dataset.Snapshot) {
	c.version = snap.Version
	c.loadedAt = snap.LoadedAt
	clear(c.byRegion)
	c.recency.Init()
}
