package validator

import (
	"fmt"
	"math"
	"time"

	"github.com/septivank/energy-harmony/tools/timeparser"
)

// ValidationResult holds validation outcome
type ValidationResult struct {
	IsValid bool
	Reason  string
}

// SampleData is an unvalidated usage reading
type SampleData struct {
	// Usage is nil when the field was absent
	Usage *float64
	// Timestamp is optional; empty means the reading was taken on receipt
	Timestamp string
}

// Validator checks incoming usage readings
type Validator struct {
	timestampToleranceMinutes int
	maxUsageKWh               float64
}

// NewValidator creates a new validator with the specified tolerance and
// per-reading usage ceiling
func NewValidator(timestampToleranceMinutes int, maxUsageKWh float64) *Validator {
	return &Validator{
		timestampToleranceMinutes: timestampToleranceMinutes,
		maxUsageKWh:               maxUsageKWh,
	}
}

// ValidateSample validates a reading and resolves its timestamp
func (v *Validator) ValidateSample(sample SampleData, receivedAt time.Time) (float64, time.Time, ValidationResult) {
	if sample.Usage == nil {
		return 0, time.Time{}, invalid("usage is required")
	}

	value := *sample.Usage
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, time.Time{}, invalid("usage must be a finite number")
	}
	if value < 0 {
		return value, time.Time{}, invalid("usage must not be negative")
	}
	if value > v.maxUsageKWh {
		return value, time.Time{}, invalid(fmt.Sprintf("usage must not exceed %g kWh", v.maxUsageKWh))
	}

	if sample.Timestamp == "" {
		return value, receivedAt, ValidationResult{IsValid: true}
	}

	readingTime, err := timeparser.ParseSampleTimestamp(sample.Timestamp)
	if err != nil {
		return value, time.Time{}, invalid(fmt.Sprintf("invalid timestamp format: %v", err))
	}

	if !timeparser.IsWithinTolerance(readingTime, receivedAt, v.timestampToleranceMinutes) {
		return value, readingTime, invalid(fmt.Sprintf("timestamp outside tolerance window (±%d minutes)", v.timestampToleranceMinutes))
	}

	return value, readingTime, ValidationResult{IsValid: true}
}

func invalid(reason string) ValidationResult {
	return ValidationResult{IsValid: false, Reason: reason}
}
