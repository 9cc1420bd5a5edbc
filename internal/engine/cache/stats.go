package cache

import "fmt"

// percentMultiplier converts a ratio to a percentage.
const percentMultiplier = 100

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Puts      int64 `json:"puts"`
	Evictions int64 `json:"evictions"`
	Entries   int   `json:"entries"`
	Capacity  int   `json:"capacity"`
}

// HitRatio returns hits as a percentage of all lookups (0-100).
func (s Stats) HitRatio() float64 {
	lookups := s.Hits + s.Misses
	if lookups == 0 {
		return 0
	}
	return float64(s.Hits) / float64(lookups) * percentMultiplier
}

// String renders the snapshot on a single line.
func (s Stats) String() string {
	return fmt.Sprintf("entries=%d/%d hits=%d misses=%d evictions=%d hit_ratio=%.1f%%",
		s.Entries, s.Capacity, s.Hits, s.Misses, s.Evictions, s.HitRatio())
}
