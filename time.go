package guard

import (
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// ParseDurationPattern parses a duration expression. It accepts anything
// time.ParseDuration does ("48h", "30m") plus day based spans written as
// "<number> <unit>": "2 days", "1 week", "6 months", "5 years".
func ParseDurationPattern(pattern string) (time.Duration, error) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return 0, goerrors.New("empty duration pattern", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	if d, err := time.ParseDuration(trimmed); err == nil {
		return d, nil
	}

	fields := strings.Fields(strings.ToLower(trimmed))
	if len(fields) != 2 {
		return 0, goerrors.New("unparseable duration pattern", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"pattern": pattern})
	}

	amount, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid duration amount").
			WithMetadata(map[string]any{"pattern": pattern})
	}

	unit, ok := durationUnits[strings.TrimSuffix(fields[1], "s")]
	if !ok {
		return 0, goerrors.New("unknown duration unit", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"pattern": pattern, "unit": fields[1]})
	}

	return time.Duration(amount * float64(unit)), nil
}

var durationUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// IsWithinThresholdPeriod checks if the given time is within the threshold
func IsWithinThresholdPeriod(t time.Time, pattern string) (bool, error) {
	duration, err := ParseDurationPattern(pattern)
	if err != nil {
		return false, err
	}

	threshold := time.Now().Add(-duration)
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
