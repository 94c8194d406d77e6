package store

import (
	"testing"

	"github.com/tmackey/wortwatch/internal/model"
)

func TestStyleSeedData(t *testing.T) {
	cs := NewCatalogStore(openTestDB(t))

	styles, err := cs.ListStyles()
	if err != nil {
		t.Fatalf("list styles: %v", err)
	}
	if len(styles) == 0 {
		t.Fatal("expected seeded styles")
	}

	var ipa *model.Style
	for i := range styles {
		if styles[i].Code == "21A" {
			ipa = &styles[i]
		}
	}
	if ipa == nil {
		t.Fatal("expected 21A American IPA in seed data")
	}
	if ipa.OGMin != 1.056 || ipa.OGMax != 1.070 {
		t.Errorf("21A OG range = %v-%v, want 1.056-1.070", ipa.OGMin, ipa.OGMax)
	}
}

func TestYeastSeedAndCreate(t *testing.T) {
	cs := NewCatalogStore(openTestDB(t))

	yeasts, err := cs.ListYeasts()
	if err != nil {
		t.Fatalf("list yeasts: %v", err)
	}
	if len(yeasts) == 0 {
		t.Fatal("expected seeded yeast strains")
	}

	created, err := cs.CreateYeast(&model.YeastStrain{
		Name:           "House Blend",
		Producer:       "local",
		AttenuationMin: 72,
		AttenuationMax: 78,
		TempMinC:       18,
		TempMaxC:       22,
		Flocculation:   "medium",
	})
	if err != nil {
		t.Fatalf("create yeast: %v", err)
	}
	if created.Attenuation() != 75 {
		t.Errorf("attenuation midpoint = %v, want 75", created.Attenuation())
	}

	got, err := cs.GetYeast(created.ID)
	if err != nil {
		t.Fatalf("get yeast: %v", err)
	}
	if got == nil || got.Name != "House Blend" {
		t.Errorf("unexpected yeast: %+v", got)
	}
}
