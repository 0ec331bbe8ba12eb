package auth

import "time"

// IsWithinThresholdPeriod reports whether t falls inside the trailing window
// described by pattern, a time.ParseDuration string such as "24h". The login
// cooldown uses it to decide if tracked attempts are still fresh.
func IsWithinThresholdPeriod(t time.Time, pattern string) (bool, error) {
	window, err := time.ParseDuration(pattern)
	if err != nil {
		return false, err
	}

	return t.After(time.Now().Add(-window)), nil
}

// IsOutsideThresholdPeriod is the negation of IsWithinThresholdPeriod
func IsOutsideThresholdPeriod(t time.Time, pattern string) (bool, error) {
	within, err := IsWithinThresholdPeriod(t, pattern)
	if err != nil {
		return false, err
	}

	return !within, nil
}
