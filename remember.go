package guard

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultRememberDuration is the token lifetime used when a caller asks
// for remember-me without an explicit duration.
const DefaultRememberDuration = 5 * 365 * 24 * time.Hour

// ParseRememberDuration converts a caller supplied remember-me request
// into a concrete token lifetime:
//   - true, or the literal number 1: DefaultRememberDuration
//   - a duration string ("2 days", "48h"): that span
//   - a time.Duration: used as is
//   - any other non-zero number: that many seconds
//   - false, 0, "", or nil: zero (no token)
func ParseRememberDuration(value any) (time.Duration, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case bool:
		if v {
			return DefaultRememberDuration, nil
		}
		return 0, nil
	case time.Duration:
		return v, nil
	case string:
		if v == "" {
			return 0, nil
		}
		return ParseDurationPattern(v)
	case int:
		return secondsDuration(float64(v)), nil
	case int32:
		return secondsDuration(float64(v)), nil
	case int64:
		return secondsDuration(float64(v)), nil
	case uint:
		return secondsDuration(float64(v)), nil
	case float32:
		return secondsDuration(float64(v)), nil
	case float64:
		return secondsDuration(v), nil
	default:
		return 0, goerrors.New("unsupported remember duration value", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"value": value})
	}
}

func secondsDuration(n float64) time.Duration {
	if n == 0 {
		return 0
	}
	if n == 1 {
		return DefaultRememberDuration
	}
	return time.Duration(n * float64(time.Second))
}

// rememberDuration is a write-once-read-once holder for the pending
// remember token lifetime. Reading resets it unconditionally so a stale
// value can never leak into a later Login call.
type rememberDuration struct {
	duration time.Duration
	armed    bool
}

func (r *rememberDuration) arm(d time.Duration) {
	r.duration = d
	r.armed = true
}

func (r *rememberDuration) takeAndReset() (time.Duration, bool) {
	d, ok := r.duration, r.armed
	r.duration = 0
	r.armed = false
	return d, ok
}
