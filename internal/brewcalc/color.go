package brewcalc

import (
	"math"

	"github.com/tmackey/wortwatch/internal/model"
)

const (
	lbPerKg = 2.20462
	galPerL = 0.264172
)

// SRM calculates beer color via the Morey equation. Malt color units are
// computed in lb/gal and raised to the 0.6859 power. Returns 0 for an
// empty grain bill or non-positive batch size.
func SRM(fermentables []model.Fermentable, batchSizeL float64) float64 {
	if len(fermentables) == 0 || batchSizeL <= 0 {
		return 0
	}
	var mcu float64
	gallons := batchSizeL * galPerL
	for _, f := range fermentables {
		if f.AmountKg <= 0 || f.ColorSRM <= 0 {
			continue
		}
		mcu += f.ColorSRM * f.AmountKg * lbPerKg / gallons
	}
	if mcu <= 0 {
		return 0
	}
	return 1.4922 * math.Pow(mcu, 0.6859)
}

// srmSwatch pairs an SRM upper bound with its display color and name.
// Entries are ordered by SRM so both lookups are monotonic.
type srmSwatch struct {
	maxSRM float64
	hex    string
	name   string
}

var srmSwatches = []srmSwatch{
	{2, "#F8F4B4", "Pale Straw"},
	{3, "#F6E96C", "Straw"},
	{4, "#EFD65C", "Pale Gold"},
	{6, "#E5BC3E", "Gold"},
	{8, "#D69A2E", "Deep Gold"},
	{10, "#C17A23", "Amber"},
	{13, "#A85C1E", "Deep Amber"},
	{17, "#8D4419", "Copper"},
	{20, "#6F3014", "Deep Copper"},
	{24, "#5A2310", "Brown"},
	{29, "#44190B", "Dark Brown"},
	{35, "#2E1007", "Very Dark Brown"},
	{40, "#1A0903", "Black"},
}

// SRMToHex maps an SRM value to a display hex color. Darker never maps to
// a lighter swatch than a lower SRM input.
func SRMToHex(srm float64) string {
	if srm <= 0 {
		return srmSwatches[0].hex
	}
	for _, s := range srmSwatches {
		if srm <= s.maxSRM {
			return s.hex
		}
	}
	return "#030100"
}

// SRMToDescription maps an SRM value to its qualitative color name.
func SRMToDescription(srm float64) string {
	if srm <= 0 {
		return srmSwatches[0].name
	}
	for _, s := range srmSwatches {
		if srm <= s.maxSRM {
			return s.name
		}
	}
	return "Opaque Black"
}
