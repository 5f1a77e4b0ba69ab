package cache

import (
	"time"
)

// DefaultMaxEntries is the capacity used when none is given.
const DefaultMaxEntries = 64

// Stats holds cache performance metrics.
type Stats struct {
	// Configuration
	MaxEntries int

	// Current state
	Entries int

	// Performance metrics
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64 // hits / (hits + misses)

	// Timing
	LastAccess time.Time
	LastEvict  time.Time
}

// Metadata describes a cached script.
type Metadata struct {
	Topic     string
	Words     int
	Timestamp time.Time
	Hits      int64
}
