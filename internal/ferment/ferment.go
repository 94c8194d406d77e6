// Package ferment classifies fermentation progress from gravity
// readings. These are fixed-constant banding functions over measured and
// predicted gravities, not a model.
package ferment

// Progress returns fermentation completion percent from the original
// gravity, the current reading, and the target final gravity, clamped to
// [0,100]. ok is false when an operand is missing or the recipe is
// degenerate (OG at or below target FG).
func Progress(og, currentSG, targetFG float64) (pct float64, ok bool) {
	if og <= 0 || currentSG <= 0 || targetFG <= 0 {
		return 0, false
	}
	if og <= targetFG {
		return 0, false
	}
	return clampPct((og - currentSG) / (og - targetFG) * 100), true
}

// Attenuation returns apparent attenuation percent from the original
// gravity and the current reading, clamped to [0,100]. ok is false when
// OG is at or below 1.000.
func Attenuation(og, currentSG float64) (pct float64, ok bool) {
	if og <= 1.0 || currentSG <= 0 {
		return 0, false
	}
	return clampPct((og - currentSG) / (og - 1.0) * 100), true
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Activity is the qualitative fermentation activity band.
type Activity string

const (
	VeryActive Activity = "Very Active"
	Active     Activity = "Active"
	Slowing    Activity = "Slowing"
	Complete   Activity = "Complete"
)

// Classify bands a gravity rate of change, in SG points per hour, into an
// activity level. The rate is expected as a positive magnitude.
func Classify(sgPerHour float64) Activity {
	switch {
	case sgPerHour > 0.002:
		return VeryActive
	case sgPerHour > 0.0005:
		return Active
	case sgPerHour > 0.0001:
		return Slowing
	default:
		return Complete
	}
}

// AccuracyBand labels how close a predicted final gravity landed to the
// measured one, in gravity points (the difference times 1000). Display
// classification only.
func AccuracyBand(predictedFG, actualFG float64) string {
	diff := (predictedFG - actualFG) * 1000
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 2:
		return "accurate"
	case diff <= 5:
		return "close"
	default:
		return "variance"
	}
}
