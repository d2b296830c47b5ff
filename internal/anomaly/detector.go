package anomaly

import (
	"fmt"
)

// Detector flags readings that spike far above a user's recent history
type Detector struct {
	spikeThreshold            float64
	minDataPointsForDetection int
}

// NewDetector creates a new anomaly detector with the specified thresholds
func NewDetector(spikeThreshold float64, minDataPointsForDetection int) *Detector {
	return &Detector{
		spikeThreshold:            spikeThreshold,
		minDataPointsForDetection: minDataPointsForDetection,
	}
}

// Check returns a non-empty reason when amount exceeds the spike threshold
// times the rolling average of recent. Too little history never flags.
func (d *Detector) Check(amount float64, recent []float64) string {
	if len(recent) < d.minDataPointsForDetection || len(recent) == 0 {
		return ""
	}

	sum := 0.0
	for _, v := range recent {
		sum += v
	}
	average := sum / float64(len(recent))

	if average > 0 && amount > d.spikeThreshold*average {
		return fmt.Sprintf("sudden spike: %.2f kWh exceeds %.1fx rolling average %.2f kWh",
			amount, d.spikeThreshold, average)
	}

	return ""
}
