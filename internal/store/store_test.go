package store

import (
	"database/sql"
	"testing"

	"github.com/tmackey/wortwatch/internal/database"
	"github.com/tmackey/wortwatch/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testRecipe() *model.Recipe {
	return &model.Recipe{
		Name:           "House Pale Ale",
		Author:         "Tess",
		Style:          "American Pale Ale",
		BatchSizeL:     20,
		BoilSizeL:      24,
		EfficiencyPct:  75,
		BoilTimeMin:    60,
		MashTimeMin:    60,
		YeastName:      "SafAle US-05",
		AttenuationPct: 80,
		Fermentables: []model.Fermentable{
			{Name: "Pale Malt", Type: model.FermentableBase, AmountKg: 5, PotentialSG: 1.037, ColorSRM: 2},
			{Name: "Crystal 60", Type: model.FermentableSpecialty, AmountKg: 0.3, PotentialSG: 1.034, ColorSRM: 60},
		},
		Hops: []model.Hop{
			{Name: "Cascade", AlphaAcidPct: 5.5, AmountGrams: 30, Use: model.HopUseBoil, TimeMinutes: 60, Form: model.HopFormPellet},
			{Name: "Citra", AlphaAcidPct: 12, AmountGrams: 30, Use: model.HopUseDryHop, TimeMinutes: 0, Form: model.HopFormPellet},
		},
	}
}
