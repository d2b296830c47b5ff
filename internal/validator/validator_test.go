package validator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	testTimestampToleranceMinutes = 5
	testMaxUsageKWh               = 1000
)

func ptr(v float64) *float64 { return &v }

func TestValidateSample(t *testing.T) {
	v := NewValidator(testTimestampToleranceMinutes, testMaxUsageKWh)
	receivedAt := time.Date(2026, 10, 14, 10, 32, 0, 0, time.UTC)

	t.Run("valid with timestamp", func(t *testing.T) {
		value, ts, result := v.ValidateSample(SampleData{Usage: ptr(2.45), Timestamp: "2026-10-14T10:30:00Z"}, receivedAt)

		assert.True(t, result.IsValid, result.Reason)
		assert.Equal(t, 2.45, value)
		assert.Equal(t, time.Date(2026, 10, 14, 10, 30, 0, 0, time.UTC), ts)
	})

	t.Run("missing timestamp uses receipt time", func(t *testing.T) {
		_, ts, result := v.ValidateSample(SampleData{Usage: ptr(0)}, receivedAt)

		assert.True(t, result.IsValid)
		assert.Equal(t, receivedAt, ts)
	})

	t.Run("missing usage", func(t *testing.T) {
		_, _, result := v.ValidateSample(SampleData{}, receivedAt)

		assert.False(t, result.IsValid)
		assert.Equal(t, "usage is required", result.Reason)
	})

	t.Run("negative usage", func(t *testing.T) {
		_, _, result := v.ValidateSample(SampleData{Usage: ptr(-10.5)}, receivedAt)

		assert.False(t, result.IsValid)
		assert.Equal(t, "usage must not be negative", result.Reason)
	})

	t.Run("non-finite usage", func(t *testing.T) {
		_, _, result := v.ValidateSample(SampleData{Usage: ptr(math.Inf(1))}, receivedAt)

		assert.False(t, result.IsValid)
	})

	t.Run("usage at the ceiling", func(t *testing.T) {
		value, _, result := v.ValidateSample(SampleData{Usage: ptr(testMaxUsageKWh)}, receivedAt)

		assert.True(t, result.IsValid, result.Reason)
		assert.Equal(t, float64(testMaxUsageKWh), value)
	})

	t.Run("usage above the ceiling", func(t *testing.T) {
		for _, usage := range []float64{1000.01, 1e308, math.MaxFloat64} {
			_, _, result := v.ValidateSample(SampleData{Usage: ptr(usage)}, receivedAt)

			assert.False(t, result.IsValid, "usage %g", usage)
			assert.Equal(t, "usage must not exceed 1000 kWh", result.Reason)
		}
	})

	t.Run("unparseable timestamp", func(t *testing.T) {
		_, _, result := v.ValidateSample(SampleData{Usage: ptr(1), Timestamp: "soon"}, receivedAt)

		assert.False(t, result.IsValid)
		assert.Contains(t, result.Reason, "invalid timestamp format")
	})

	t.Run("timestamp outside tolerance", func(t *testing.T) {
		_, ts, result := v.ValidateSample(SampleData{Usage: ptr(1), Timestamp: "2026-10-14T09:00:00Z"}, receivedAt)

		assert.False(t, result.IsValid)
		assert.Contains(t, result.Reason, "tolerance")
		assert.False(t, ts.IsZero())
	})
}
