package cache

import (
	"strings"
	"sync"
	"time"
)

// ScriptCache is a session-scoped map from exact topic text to script.
// Keys are compared byte for byte: "Coffee" and "coffee " are different
// topics. Eviction is FIFO once MaxEntries is reached.
type ScriptCache struct {
	maxEntries int

	items map[string]*entry
	order []string // insertion order, oldest first

	// Session tracking
	sessionID string
	startTime time.Time

	mu sync.Mutex

	stats Stats
}

type entry struct {
	topic     string
	script    string
	timestamp time.Time
	hits      int64
}

// NewScriptCache creates a cache for one session. A non-positive maxEntries
// falls back to DefaultMaxEntries.
func NewScriptCache(sessionID string, maxEntries int) *ScriptCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &ScriptCache{
		maxEntries: maxEntries,
		items:      make(map[string]*entry),
		sessionID:  sessionID,
		startTime:  time.Now(),
		stats: Stats{
			MaxEntries: maxEntries,
		},
	}
}

// Get returns the script cached for topic.
func (c *ScriptCache) Get(topic string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	e, ok := c.items[topic]
	if !ok {
		c.stats.Misses++
		return "", false
	}

	e.hits++
	c.stats.Hits++
	return e.script, true
}

// Put stores script under topic, replacing any previous script for it.
// Empty scripts are ignored so a failed generation can never be served.
func (c *ScriptCache) Put(topic, script string) {
	if script == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.items[topic]; ok {
		existing.script = script
		existing.timestamp = time.Now()
		return
	}

	for len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[topic] = &entry{
		topic:     topic,
		script:    script,
		timestamp: time.Now(),
	}
	c.order = append(c.order, topic)
}

// Delete removes the script cached for topic.
func (c *ScriptCache) Delete(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[topic]; !ok {
		return
	}
	delete(c.items, topic)
	c.removeFromOrder(topic)
}

// Clear removes every entry. Counters are kept.
func (c *ScriptCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry)
	c.order = nil
}

// Len returns the number of cached scripts.
func (c *ScriptCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Metadata returns information about the cached script for topic.
func (c *ScriptCache) Metadata(topic string) (Metadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[topic]
	if !ok {
		return Metadata{}, false
	}
	return Metadata{
		Topic:     e.topic,
		Words:     len(strings.Fields(e.script)),
		Timestamp: e.timestamp,
		Hits:      e.hits,
	}, true
}

// Stats returns cache statistics.
func (c *ScriptCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Entries = len(c.items)
	if stats.Hits+stats.Misses > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Hits+stats.Misses)
	}
	return stats
}

// SessionInfo returns the owning session and its age.
func (c *ScriptCache) SessionInfo() (sessionID string, age time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sessionID, time.Since(c.startTime)
}

// evictOldest drops the first inserted entry. Caller holds mu.
func (c *ScriptCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.items, oldest)
	c.stats.Evictions++
	c.stats.LastEvict = time.Now()
}

func (c *ScriptCache) removeFromOrder(topic string) {
	for i, t := range c.order {
		if t == topic {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
