package brewcalc

import (
	"strconv"
	"testing"

	"github.com/tmackey/wortwatch/internal/model"
)

func TestSRMEmptyGrainBill(t *testing.T) {
	if srm := SRM(nil, 20); srm != 0 {
		t.Errorf("SRM(nil) = %v, want 0", srm)
	}
	if srm := SRM([]model.Fermentable{}, 20); srm != 0 {
		t.Errorf("SRM(empty) = %v, want 0", srm)
	}
}

func TestSRMZeroBatchSize(t *testing.T) {
	ferms := []model.Fermentable{{AmountKg: 5, ColorSRM: 3}}
	if srm := SRM(ferms, 0); srm != 0 {
		t.Errorf("SRM with zero batch size = %v, want 0", srm)
	}
}

func TestSRMPaleAleGrainBill(t *testing.T) {
	ferms := []model.Fermentable{
		{AmountKg: 5, ColorSRM: 3},
		{AmountKg: 0.3, ColorSRM: 60},
	}
	srm := SRM(ferms, 20)
	if srm < 5 || srm > 12 {
		t.Errorf("SRM = %.2f, expected amber-ish range for this bill", srm)
	}
}

func TestSRMMoreRoastMeansDarker(t *testing.T) {
	pale := SRM([]model.Fermentable{{AmountKg: 5, ColorSRM: 3}}, 20)
	stout := SRM([]model.Fermentable{
		{AmountKg: 5, ColorSRM: 3},
		{AmountKg: 0.5, ColorSRM: 500},
	}, 20)
	if stout <= pale {
		t.Errorf("stout SRM %v not darker than pale SRM %v", stout, pale)
	}
}

// luminance is a rough brightness score for a hex color, enough to order
// swatches light to dark.
func luminance(t *testing.T, hex string) int {
	t.Helper()
	if len(hex) != 7 || hex[0] != '#' {
		t.Fatalf("bad hex color %q", hex)
	}
	r, err1 := strconv.ParseInt(hex[1:3], 16, 0)
	g, err2 := strconv.ParseInt(hex[3:5], 16, 0)
	b, err3 := strconv.ParseInt(hex[5:7], 16, 0)
	if err1 != nil || err2 != nil || err3 != nil {
		t.Fatalf("bad hex color %q", hex)
	}
	return int(2*r + 3*g + b)
}

func TestSRMToHexMonotonicDarkness(t *testing.T) {
	prev := luminance(t, SRMToHex(0))
	for srm := 0.5; srm <= 45; srm += 0.5 {
		lum := luminance(t, SRMToHex(srm))
		if lum > prev {
			t.Fatalf("SRMToHex(%v) is lighter than the previous swatch", srm)
		}
		prev = lum
	}
}

func TestSRMToDescription(t *testing.T) {
	tests := []struct {
		srm  float64
		want string
	}{
		{0, "Pale Straw"},
		{2.5, "Straw"},
		{5, "Gold"},
		{9, "Amber"},
		{15, "Copper"},
		{22, "Brown"},
		{38, "Black"},
		{60, "Opaque Black"},
	}
	for _, tt := range tests {
		if got := SRMToDescription(tt.srm); got != tt.want {
			t.Errorf("SRMToDescription(%v) = %q, want %q", tt.srm, got, tt.want)
		}
	}
}

func TestSRMDescriptionMonotonicIndex(t *testing.T) {
	// Each description must appear in a single contiguous SRM interval.
	index := func(name string) int {
		for i, s := range srmSwatches {
			if s.name == name {
				return i
			}
		}
		return len(srmSwatches)
	}
	prev := -1
	for srm := 0.0; srm <= 50; srm += 0.25 {
		i := index(SRMToDescription(srm))
		if i < prev {
			t.Fatalf("description order regressed at SRM %v", srm)
		}
		prev = i
	}
}
