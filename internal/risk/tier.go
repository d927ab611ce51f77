package risk

// Risk tiers derived from the output probability.
const (
	TierLow      = "Low"
	TierModerate = "Moderate"
	TierHigh     = "High"
)

// Fixed tier thresholds. Not configurable per call.
const (
	moderateThreshold = 0.3
	highThreshold     = 0.7
)

// TierFor maps a probability to its risk tier: p < 0.3 Low, p < 0.7
// Moderate, otherwise High.
func TierFor(p float64) string {
	switch {
	case p < moderateThreshold:
		return TierLow
	case p < highThreshold:
		return TierModerate
	default:
		return TierHigh
	}
}
