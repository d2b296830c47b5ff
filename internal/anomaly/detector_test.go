package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_Check(t *testing.T) {
	d := NewDetector(3.0, 3)

	tests := []struct {
		name    string
		amount  float64
		recent  []float64
		flagged bool
	}{
		{"spike over threshold", 3.5, []float64{1.0, 1.05, 0.98, 1.02}, true},
		{"normal reading", 1.1, []float64{1.0, 1.05, 0.98, 1.02}, false},
		{"exactly at threshold", 3.0, []float64{1, 1, 1}, false},
		{"insufficient history", 30, []float64{1, 1}, false},
		{"no history", 30, nil, false},
		{"zero average", 5, []float64{0, 0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason := d.Check(tt.amount, tt.recent)
			assert.Equal(t, tt.flagged, reason != "", "reason=%q", reason)
		})
	}
}

func TestDetector_ZeroMinimumStillNeedsHistory(t *testing.T) {
	d := NewDetector(2.0, 0)

	assert.Empty(t, d.Check(10, nil))
	assert.Contains(t, d.Check(10, []float64{1}), "sudden spike")
}
