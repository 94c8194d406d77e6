package brewcalc

import (
	"math"

	"github.com/tmackey/wortwatch/internal/model"
)

// HopIBU calculates the Tinseth IBU contribution of a single hop
// addition. Only boil and first-wort additions bitter the wort; all other
// uses contribute zero.
func HopIBU(hop model.Hop, og, batchSizeL float64) float64 {
	if hop.Use != model.HopUseBoil && hop.Use != model.HopUseFirstWort {
		return 0
	}
	if hop.AmountGrams <= 0 || hop.AlphaAcidPct <= 0 || batchSizeL <= 0 || hop.TimeMinutes <= 0 {
		return 0
	}
	util := tinsethUtilization(og, float64(hop.TimeMinutes))
	return hop.AmountGrams * (hop.AlphaAcidPct / 100) * util * 1000 / batchSizeL
}

// TotalIBU sums the Tinseth contributions of a hop schedule.
func TotalIBU(hops []model.Hop, og, batchSizeL float64) float64 {
	var total float64
	for _, h := range hops {
		total += HopIBU(h, og, batchSizeL)
	}
	return total
}

// tinsethUtilization is the Tinseth bigness factor times the boil time
// factor.
func tinsethUtilization(og, minutes float64) float64 {
	if og < 1.0 {
		og = 1.0
	}
	bigness := 1.65 * math.Pow(0.000125, og-1.0)
	timeFactor := (1.0 - math.Exp(-0.04*minutes)) / 4.15
	return bigness * timeFactor
}

// BUGU returns the bitterness-to-gravity ratio IBU / ((OG-1)*1000).
// Returns 0 when OG is at or below 1.000 so a degenerate recipe never
// divides by zero.
func BUGU(ibu, og float64) float64 {
	gu := (og - 1.0) * 1000
	if gu <= 0 || ibu <= 0 {
		return 0
	}
	return ibu / gu
}

// Balance classifies a BU:GU ratio into a drinker-facing band.
func Balance(bugu float64) string {
	switch {
	case bugu < 0.3:
		return "very sweet"
	case bugu < 0.5:
		return "malty"
	case bugu < 0.7:
		return "balanced"
	case bugu < 0.9:
		return "hoppy"
	default:
		return "very bitter"
	}
}
