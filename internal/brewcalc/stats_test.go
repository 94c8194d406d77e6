package brewcalc

import (
	"testing"

	"github.com/tmackey/wortwatch/internal/model"
)

func testRecipe() *model.Recipe {
	return &model.Recipe{
		Name:           "House Pale",
		BatchSizeL:     20,
		EfficiencyPct:  75,
		BoilTimeMin:    60,
		AttenuationPct: 75,
		Fermentables: []model.Fermentable{
			{Name: "Pale Malt", AmountKg: 5, PotentialSG: 1.037, ColorSRM: 3},
		},
		Hops: []model.Hop{
			{Name: "Cascade", AmountGrams: 30, AlphaAcidPct: 6, Use: model.HopUseBoil, TimeMinutes: 60},
			{Name: "Cascade", AmountGrams: 25, AlphaAcidPct: 6, Use: model.HopUseDryHop, TimeMinutes: 0},
		},
	}
}

func TestRecipeStatsComposition(t *testing.T) {
	r := testRecipe()
	stats := RecipeStats(r)

	if !almostEqual(stats.OG, 1.069, 0.001) {
		t.Errorf("OG = %.4f, want ~1.069", stats.OG)
	}
	if !almostEqual(stats.FG, 1.017, 0.001) {
		t.Errorf("FG = %.4f, want ~1.017", stats.FG)
	}
	if !almostEqual(stats.ABV, 6.8, 0.1) {
		t.Errorf("ABV = %.2f, want ~6.8", stats.ABV)
	}
	if stats.IBU <= 0 {
		t.Errorf("IBU = %v, want positive", stats.IBU)
	}
	if stats.SRM <= 0 {
		t.Errorf("SRM = %v, want positive", stats.SRM)
	}
	if stats.ColorHex == "" || stats.ColorName == "" {
		t.Error("color fields must always be populated")
	}
	if stats.Balance == "" {
		t.Error("balance band must always be populated")
	}
}

func TestRecipeStatsDoesNotMutateInputs(t *testing.T) {
	r := testRecipe()
	before := *r
	beforeFerms := append([]model.Fermentable(nil), r.Fermentables...)
	beforeHops := append([]model.Hop(nil), r.Hops...)

	_ = RecipeStats(r)

	if r.BatchSizeL != before.BatchSizeL || r.EfficiencyPct != before.EfficiencyPct {
		t.Error("batch parameters mutated")
	}
	for i := range beforeFerms {
		if r.Fermentables[i] != beforeFerms[i] {
			t.Errorf("fermentable %d mutated", i)
		}
	}
	for i := range beforeHops {
		if r.Hops[i] != beforeHops[i] {
			t.Errorf("hop %d mutated", i)
		}
	}
}

func TestRecipeStatsEmptyRecipe(t *testing.T) {
	stats := RecipeStats(&model.Recipe{BatchSizeL: 20, EfficiencyPct: 75})
	if stats.OG != 1.0 {
		t.Errorf("empty recipe OG = %v, want 1.0", stats.OG)
	}
	if stats.IBU != 0 || stats.SRM != 0 || stats.ABV != 0 {
		t.Errorf("empty recipe stats = %+v, want zeros", stats)
	}
}

func TestCheckStyleNoStyle(t *testing.T) {
	if w := CheckStyle(RecipeStats(testRecipe()), nil); w != nil {
		t.Errorf("CheckStyle(nil style) = %v, want nil", w)
	}
}

func TestCheckStyleInRange(t *testing.T) {
	style := &model.Style{
		Code:  "18B",
		Name:  "American Pale Ale",
		OGMin: 1.045, OGMax: 1.070,
		FGMin: 1.010, FGMax: 1.018,
		ABVMin: 4.5, ABVMax: 7.0,
		IBUMin: 10, IBUMax: 50,
		SRMMin: 2, SRMMax: 10,
	}
	warnings := CheckStyle(RecipeStats(testRecipe()), style)
	if len(warnings) != 0 {
		t.Errorf("expected conformant recipe, got warnings: %v", warnings)
	}
}

func TestCheckStyleOutOfRange(t *testing.T) {
	style := &model.Style{
		Code:  "1A",
		Name:  "American Light Lager",
		OGMin: 1.028, OGMax: 1.040,
		FGMin: 0.998, FGMax: 1.008,
		ABVMin: 2.8, ABVMax: 4.2,
		IBUMin: 8, IBUMax: 12,
		SRMMin: 2, SRMMax: 3,
	}
	warnings := CheckStyle(RecipeStats(testRecipe()), style)
	if len(warnings) < 3 {
		t.Fatalf("pale ale against light lager: got %d warnings, want several: %v", len(warnings), warnings)
	}
	seen := map[string]bool{}
	for _, w := range warnings {
		seen[w.Stat] = true
		if w.Message == "" {
			t.Errorf("warning for %s missing message", w.Stat)
		}
	}
	if !seen["og"] || !seen["abv"] {
		t.Errorf("expected og and abv warnings, got %v", warnings)
	}
}

func TestCheckStyleSkipsUnsetRanges(t *testing.T) {
	style := &model.Style{Code: "X", OGMin: 1.045, OGMax: 1.070}
	warnings := CheckStyle(RecipeStats(testRecipe()), style)
	for _, w := range warnings {
		if w.Stat != "og" {
			t.Errorf("stat %s checked despite zero max", w.Stat)
		}
	}
}
