package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of sub-samples taken
	HitSamples   int           // Sub-samples whose ray reached the sphere
	NumWorkers   int           // Number of parallel workers used
	Duration     time.Duration // Wall-clock time spent in the render loop
}

// HitRatio returns the fraction of samples that hit the sphere
func (s RenderStats) HitRatio() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.HitSamples) / float64(s.TotalSamples)
}

// rowStats is accumulated privately by each row and merged after the render
type rowStats struct {
	samples int
	hits    int
}

// mergeRowStats folds per-row counters into the render totals
func mergeRowStats(stats *RenderStats, rows []rowStats) {
	for _, r := range rows {
		stats.TotalSamples += r.samples
		stats.HitSamples += r.hits
	}
}
