package accounts

import "time"

// ResetTokenWindow is how long a password reset token stays valid.
var ResetTokenWindow = "24h"

// IsWithinThresholdPeriod checks if the given time is within the threshold
func IsWithinThresholdPeriod(t time.Time, pattern string) (bool, error) {
	return IsWithinThresholdPeriodAt(t, pattern, time.Now())
}

// IsWithinThresholdPeriodAt is IsWithinThresholdPeriod evaluated against
// an explicit reference time so callers with an injected clock stay
// deterministic.
func IsWithinThresholdPeriodAt(t time.Time, pattern string, now time.Time) (bool, error) {
	duration, err := time.ParseDuration(pattern)
	if err != nil {
		return false, err
	}

	threshold := now.Add(-duration)
	if t.After(threshold) {
		return true, nil
	}

	return false, nil
}

// IsOutsideThresholdPeriod is the negation of IsWithinThresholdPeriod
func IsOutsideThresholdPeriod(t time.Time, pattern string) (bool, error) {
	valid, err := IsWithinThresholdPeriod(t, pattern)
	if err != nil {
		return false, err
	}

	return !valid, nil
}

// IsOutsideThresholdPeriodAt is the negation of IsWithinThresholdPeriodAt
func IsOutsideThresholdPeriodAt(t time.Time, pattern string, now time.Time) (bool, error) {
	valid, err := IsWithinThresholdPeriodAt(t, pattern, now)
	if err != nil {
		return false, err
	}

	return !valid, nil
}
