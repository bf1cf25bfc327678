package cache

// Stats is a point-in-time snapshot of the cache counters.
//
// TotalHits and CacheHits grow monotonically and reset only via
// ResetStats. In the concurrent cache a snapshot taken while lookups are
// in flight may lag those lookups by a moment; no increment is ever
// lost.
type Stats struct {
	// TotalHits counts completed Get calls.
	TotalHits int64
	// CacheHits counts Get calls that found a resident, already linked
	// entry.
	CacheHits int64
	// Items is the number of resident entries at snapshot time.
	Items int
}

// Misses returns the number of Get calls that did not find a resident
// entry.
func (s Stats) Misses() int64 { return s.TotalHits - s.CacheHits }

// HitRate returns CacheHits/TotalHits in [0, 1], or 0 when no Get has
// completed yet.
func (s Stats) HitRate() float64 {
	if s.TotalHits == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.TotalHits)
}
