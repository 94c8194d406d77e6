package brewcalc

import (
	"math"
	"testing"

	"github.com/tmackey/wortwatch/internal/model"
)

func boilHop(grams, alpha float64, minutes int) model.Hop {
	return model.Hop{
		Name:         "Cascade",
		AlphaAcidPct: alpha,
		AmountGrams:  grams,
		Use:          model.HopUseBoil,
		TimeMinutes:  minutes,
		Form:         model.HopFormPellet,
	}
}

func TestHopIBUNonBoilUsesContributeZero(t *testing.T) {
	for _, use := range []model.HopUse{model.HopUseWhirlpool, model.HopUseDryHop, model.HopUseMash} {
		h := boilHop(30, 10, 60)
		h.Use = use
		if ibu := HopIBU(h, 1.050, 20); ibu != 0 {
			t.Errorf("HopIBU(use=%s) = %v, want 0", use, ibu)
		}
	}
}

func TestHopIBUFirstWortContributes(t *testing.T) {
	h := boilHop(30, 10, 60)
	h.Use = model.HopUseFirstWort
	if ibu := HopIBU(h, 1.050, 20); ibu <= 0 {
		t.Errorf("HopIBU(first_wort) = %v, want positive", ibu)
	}
}

func TestHopIBUPlausibleValue(t *testing.T) {
	// 30g of 10%AA for 60 min in 20L of 1.050 wort is a mid-30s IBU
	// addition by Tinseth.
	ibu := HopIBU(boilHop(30, 10, 60), 1.050, 20)
	if math.Abs(ibu-34.6) > 1.0 {
		t.Errorf("HopIBU = %.2f, want ~34.6", ibu)
	}
}

func TestHopIBUMonotonicInAmount(t *testing.T) {
	prev := 0.0
	for grams := 10.0; grams <= 100; grams += 10 {
		ibu := HopIBU(boilHop(grams, 8, 45), 1.055, 20)
		if ibu < prev {
			t.Fatalf("IBU decreased from %v to %v as grams rose to %v", prev, ibu, grams)
		}
		prev = ibu
	}
}

func TestHopIBUMonotonicInAlpha(t *testing.T) {
	prev := 0.0
	for alpha := 2.0; alpha <= 18; alpha += 2 {
		ibu := HopIBU(boilHop(25, alpha, 45), 1.055, 20)
		if ibu < prev {
			t.Fatalf("IBU decreased from %v to %v as alpha rose to %v", prev, ibu, alpha)
		}
		prev = ibu
	}
}

func TestHopIBULongerBoilMoreBitter(t *testing.T) {
	short := HopIBU(boilHop(30, 10, 15), 1.050, 20)
	long := HopIBU(boilHop(30, 10, 90), 1.050, 20)
	if long <= short {
		t.Errorf("90 min IBU %v not greater than 15 min IBU %v", long, short)
	}
}

func TestHopIBUHigherGravityLowerUtilization(t *testing.T) {
	sessionBeer := HopIBU(boilHop(30, 10, 60), 1.035, 20)
	barleywine := HopIBU(boilHop(30, 10, 60), 1.100, 20)
	if barleywine >= sessionBeer {
		t.Errorf("high-gravity IBU %v not lower than low-gravity IBU %v", barleywine, sessionBeer)
	}
}

func TestTotalIBUSumsSchedule(t *testing.T) {
	hops := []model.Hop{
		boilHop(30, 10, 60),
		boilHop(20, 6, 15),
		{Name: "Citra", AmountGrams: 50, AlphaAcidPct: 12, Use: model.HopUseDryHop, TimeMinutes: 0},
	}
	want := HopIBU(hops[0], 1.050, 20) + HopIBU(hops[1], 1.050, 20)
	got := TotalIBU(hops, 1.050, 20)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("TotalIBU = %v, want %v", got, want)
	}
}

func TestBUGUZeroSafe(t *testing.T) {
	got := BUGU(35, 1.000)
	if got != 0 {
		t.Errorf("BUGU(35, 1.000) = %v, want 0", got)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("BUGU(35, 1.000) = %v, must be finite", got)
	}
}

func TestBUGURatio(t *testing.T) {
	got := BUGU(35, 1.050)
	if !almostEqual(got, 0.7, 0.0001) {
		t.Errorf("BUGU(35, 1.050) = %v, want 0.7", got)
	}
}

func TestBalanceBands(t *testing.T) {
	tests := []struct {
		bugu float64
		want string
	}{
		{0.1, "very sweet"},
		{0.29, "very sweet"},
		{0.3, "malty"},
		{0.49, "malty"},
		{0.5, "balanced"},
		{0.69, "balanced"},
		{0.7, "hoppy"},
		{0.89, "hoppy"},
		{0.9, "very bitter"},
		{1.5, "very bitter"},
	}
	for _, tt := range tests {
		if got := Balance(tt.bugu); got != tt.want {
			t.Errorf("Balance(%v) = %q, want %q", tt.bugu, got, tt.want)
		}
	}
}
