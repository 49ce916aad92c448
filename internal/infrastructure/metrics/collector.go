package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/asakaida/tsunagi/pkg/relationship"
)

// Collector collects and aggregates registry metrics in process.
type Collector struct {
	defines    sync.Map // map[string]*uint64 - category -> count
	duplicates sync.Map // map[string]*uint64 - category -> rejected defines
	hits       sync.Map // map[string]*uint64 - category -> successful lookups
	misses     sync.Map // map[string]*uint64 - category -> failed lookups
}

// RegistryMetrics holds a snapshot of registry activity, keyed by category name.
type RegistryMetrics struct {
	Defines      map[string]uint64
	Duplicates   map[string]uint64
	LookupHits   map[string]uint64
	LookupMisses map[string]uint64
}

// HitRate returns the lookup hit rate (0.0 to 1.0) for a category.
func (m *RegistryMetrics) HitRate(category string) float64 {
	total := m.LookupHits[category] + m.LookupMisses[category]
	if total == 0 {
		return 0.0
	}
	return float64(m.LookupHits[category]) / float64(total)
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordDefine records a successful define.
func (c *Collector) RecordDefine(category relationship.Category) {
	atomic.AddUint64(c.getOrCreateCounter(&c.defines, category.String()), 1)
}

// RecordDuplicate records a define rejected as a duplicate.
func (c *Collector) RecordDuplicate(category relationship.Category) {
	atomic.AddUint64(c.getOrCreateCounter(&c.duplicates, category.String()), 1)
}

// RecordLookup records a lookup and whether it found a relationship.
func (c *Collector) RecordLookup(category relationship.Category, hit bool) {
	m := &c.misses
	if hit {
		m = &c.hits
	}
	atomic.AddUint64(c.getOrCreateCounter(m, category.String()), 1)
}

// GetRegistryMetrics returns current registry metrics.
func (c *Collector) GetRegistryMetrics() *RegistryMetrics {
	return &RegistryMetrics{
		Defines:      snapshot(&c.defines),
		Duplicates:   snapshot(&c.duplicates),
		LookupHits:   snapshot(&c.hits),
		LookupMisses: snapshot(&c.misses),
	}
}

// getOrCreateCounter gets or creates a counter for the given key.
func (c *Collector) getOrCreateCounter(m *sync.Map, key string) *uint64 {
	val, _ := m.LoadOrStore(key, new(uint64))
	return val.(*uint64)
}

func snapshot(m *sync.Map) map[string]uint64 {
	out := make(map[string]uint64)
	m.Range(func(key, value any) bool {
		out[key.(string)] = atomic.LoadUint64(value.(*uint64))
		return true
	})
	return out
}
