package scoring

import (
	"math"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
)

// MaxTravelMinutes is the ceiling above which a reported travel time is
// treated as unreachable (24 hours)
const MaxTravelMinutes = 24 * 60

// TravelTimeKind distinguishes a measured duration from the two failure
// shapes a matrix cell can take
type TravelTimeKind int

const (
	// Measured is a finite, non-negative duration within the 24h ceiling
	Measured TravelTimeKind = iota
	// Unreachable means the provider could not route the pair, or the
	// duration exceeds the ceiling
	Unreachable
	// Invalid means the cell held a value that is not a duration at all
	// (NaN, ±Inf, or negative without being the sentinel)
	Invalid
)

// TravelTime is one classified matrix cell. Aggregators fold over the three
// kinds explicitly instead of comparing against sentinel constants.
type TravelTime struct {
	Kind    TravelTimeKind
	Minutes float64 // meaningful only when Kind == Measured
}

// Classify maps one raw matrix value onto the TravelTime variant
func Classify(raw float64) TravelTime {
	switch {
	case math.IsNaN(raw) || math.IsInf(raw, 0):
		return TravelTime{Kind: Invalid}
	case raw == models.UnreachableSentinel:
		return TravelTime{Kind: Unreachable}
	case raw < 0:
		return TravelTime{Kind: Invalid}
	case raw > MaxTravelMinutes:
		return TravelTime{Kind: Unreachable}
	default:
		return TravelTime{Kind: Measured, Minutes: raw}
	}
}

// coerceNonFinite replaces NaN and ±Inf cells with the unreachable
// sentinel. Both kinds are dropped by sanitize, so folds over the coerced
// column match folds over the original, and the stored column stays
// JSON-serializable.
func coerceNonFinite(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = models.UnreachableSentinel
		} else {
			out[i] = v
		}
	}
	return out
}

// sanitize folds a raw matrix column into the measured durations only:
// Measured values are kept, Unreachable and Invalid are dropped
func sanitize(raw []float64) []float64 {
	valid := make([]float64, 0, len(raw))
	for _, v := range raw {
		if t := Classify(v); t.Kind == Measured {
			valid = append(valid, t.Minutes)
		}
	}
	return valid
}
