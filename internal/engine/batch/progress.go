package batch

import "time"

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress is a snapshot of batch processing state.
type Progress struct {
	TotalItems       int
	ProcessedItems   int
	TotalBatches     int
	ProcessedBatches int
	BatchSize        int
	StartTime        time.Time
	Elapsed          time.Duration
}

// PercentComplete returns the completion percentage (0-100).
func (p Progress) PercentComplete() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return float64(p.ProcessedItems) / float64(p.TotalItems) * percentMultiplier
}

// IsComplete reports whether every item has been processed.
func (p Progress) IsComplete() bool {
	return p.ProcessedItems >= p.TotalItems
}

// ItemsPerSecond returns the processing rate, or 0 before any time has elapsed.
func (p Progress) ItemsPerSecond() float64 {
	secs := p.Elapsed.Seconds()
	if secs == 0 {
		return 0
	}
	return float64(p.ProcessedItems) / secs
}
