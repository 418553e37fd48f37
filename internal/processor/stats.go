package processor

import "sync/atomic"

// Stats holds the diagnostic counters of a processor. All counters are
// updated atomically by the workers.
type Stats struct {
	Words              atomic.Int64
	Ties               atomic.Int64
	Placeholders       atomic.Int64
	Fallbacks          atomic.Int64
	CacheHits          atomic.Int64
	CacheMisses        atomic.Int64
	AlignmentFallbacks atomic.Int64
	Skipped            atomic.Int64
}

// Counts is a point in time copy of Stats.
type Counts struct {
	Words              int64
	Ties               int64
	Placeholders       int64
	Fallbacks          int64
	CacheHits          int64
	CacheMisses        int64
	AlignmentFallbacks int64
	Skipped            int64
}

// Counts returns the current counter values.
func (s *Stats) Counts() Counts {
	return Counts{
		Words:              s.Words.Load(),
		Ties:               s.Ties.Load(),
		Placeholders:       s.Placeholders.Load(),
		Fallbacks:          s.Fallbacks.Load(),
		CacheHits:          s.CacheHits.Load(),
		CacheMisses:        s.CacheMisses.Load(),
		AlignmentFallbacks: s.AlignmentFallbacks.Load(),
		Skipped:            s.Skipped.Load(),
	}
}

// TiePercent returns the share of words that needed a tie-break.
func (c Counts) TiePercent() float64 {
	if c.Words == 0 {
		return 0
	}
	return float64(c.Ties) * 100 / float64(c.Words)
}
