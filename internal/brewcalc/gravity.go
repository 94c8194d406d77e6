// Package brewcalc implements the brewing formulas behind recipe and
// batch statistics: gravity, alcohol, bitterness, color, calories, and
// water volumes. All functions are pure and treat missing or degenerate
// inputs as defined defaults (OG 1.000, IBU 0, SRM 0) rather than
// returning errors, so a caller can always render a value.
package brewcalc

import "github.com/tmackey/wortwatch/internal/model"

// extractYieldFactor converts per-kg gravity points to liter points. A
// fermentable with potential 1.037 contributes 370 liter-points per kg at
// 100% efficiency.
const extractYieldFactor = 10.0

// ABVFactor is the standard approximation multiplier for ABV from a
// specific-gravity difference.
const ABVFactor = 131.25

// OG calculates original gravity from a grain bill and batch parameters.
// Efficiency applies to mashed grains only in principle, but matching the
// recipe editor's behavior it applies uniformly. Returns exactly 1.0 for
// an empty grain bill or a non-positive batch size.
func OG(fermentables []model.Fermentable, batchSizeL, efficiencyPct float64) float64 {
	if len(fermentables) == 0 || batchSizeL <= 0 {
		return 1.0
	}
	var points float64
	for _, f := range fermentables {
		if f.AmountKg <= 0 || f.PotentialSG <= 1.0 {
			continue
		}
		points += f.AmountKg * (f.PotentialSG - 1.0) * 1000 * (efficiencyPct / 100) * extractYieldFactor
	}
	return 1.0 + points/batchSizeL/1000
}

// FG calculates final gravity from original gravity and yeast apparent
// attenuation percent.
func FG(og, attenuationPct float64) float64 {
	if og <= 1.0 {
		return 1.0
	}
	if attenuationPct < 0 {
		attenuationPct = 0
	}
	if attenuationPct > 100 {
		attenuationPct = 100
	}
	return 1.0 + (og-1.0)*(1.0-attenuationPct/100)
}

// ABV returns alcohol by volume percent using the standard (og-fg)*131.25
// approximation. Negative differences clamp to zero.
func ABV(og, fg float64) float64 {
	if fg >= og {
		return 0
	}
	return (og - fg) * ABVFactor
}

// ABVFromPoints is the same approximation with gravity-point inputs
// (og and fg scaled by 1000), for callers that track points rather than
// specific gravity.
func ABVFromPoints(ogPoints, fgPoints float64) float64 {
	return ABV(1.0+ogPoints/1000, 1.0+fgPoints/1000)
}

// servingML is the serving size calorie figures are quoted for.
const servingML = 330.0

// Calories estimates calories per 330 ml serving from residual extract
// and alcohol content. The underlying formula is quoted per 355 ml
// (12 oz) and rescaled.
func Calories(og, fg float64) float64 {
	if og <= 1.0 || fg <= 0 || fg > og {
		return 0
	}
	alcohol := 1881.22 * fg * (og - fg) / (1.775 - og)
	carbs := 3550.0 * fg * ((0.1808 * og) + (0.8192 * fg) - 1.0004)
	per355 := alcohol + carbs
	if per355 < 0 {
		return 0
	}
	return per355 * servingML / 355.0
}
