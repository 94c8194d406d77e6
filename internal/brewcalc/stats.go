package brewcalc

import (
	"fmt"

	"github.com/tmackey/wortwatch/internal/model"
)

// Stats is the derived statistics record for a recipe, recomputed from
// ingredients and batch parameters on every change.
type Stats struct {
	OG            float64 `json:"og"`
	FG            float64 `json:"fg"`
	ABV           float64 `json:"abv"`
	IBU           float64 `json:"ibu"`
	SRM           float64 `json:"srm"`
	ColorHex      string  `json:"color_hex"`
	ColorName     string  `json:"color_name"`
	BUGU          float64 `json:"bugu"`
	Balance       string  `json:"balance"`
	Calories330ML float64 `json:"calories_per_330ml"`
}

// RecipeStats composes the formula library into one stats record. It
// never mutates the recipe.
func RecipeStats(r *model.Recipe) Stats {
	og := OG(r.Fermentables, r.BatchSizeL, r.EfficiencyPct)
	fg := FG(og, r.AttenuationPct)
	ibu := TotalIBU(r.Hops, og, r.BatchSizeL)
	srm := SRM(r.Fermentables, r.BatchSizeL)
	bugu := BUGU(ibu, og)
	return Stats{
		OG:            og,
		FG:            fg,
		ABV:           ABV(og, fg),
		IBU:           ibu,
		SRM:           srm,
		ColorHex:      SRMToHex(srm),
		ColorName:     SRMToDescription(srm),
		BUGU:          bugu,
		Balance:       Balance(bugu),
		Calories330ML: Calories(og, fg),
	}
}

// StyleWarning flags one statistic outside the selected style's range.
type StyleWarning struct {
	Stat    string  `json:"stat"`
	Actual  float64 `json:"actual"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Message string  `json:"message"`
}

// CheckStyle compares calculated stats against a BJCP style's vital
// ranges and returns a warning per out-of-range statistic. A nil style or
// a range with zero max skips the check; an empty slice means conformant.
func CheckStyle(stats Stats, style *model.Style) []StyleWarning {
	if style == nil {
		return nil
	}
	var warnings []StyleWarning
	check := func(stat string, actual, min, max float64) {
		if max <= 0 {
			return
		}
		if actual < min || actual > max {
			warnings = append(warnings, StyleWarning{
				Stat:    stat,
				Actual:  actual,
				Min:     min,
				Max:     max,
				Message: fmt.Sprintf("%s %.3f outside %s range %.3f-%.3f", stat, actual, style.Code, min, max),
			})
		}
	}
	check("og", stats.OG, style.OGMin, style.OGMax)
	check("fg", stats.FG, style.FGMin, style.FGMax)
	check("abv", stats.ABV, style.ABVMin, style.ABVMax)
	check("ibu", stats.IBU, style.IBUMin, style.IBUMax)
	check("srm", stats.SRM, style.SRMMin, style.SRMMax)
	return warnings
}
