package model

import "time"

// FermentableType categorizes a fermentable ingredient.
type FermentableType string

const (
	FermentableBase      FermentableType = "base"
	FermentableSpecialty FermentableType = "specialty"
	FermentableAdjunct   FermentableType = "adjunct"
	FermentableSugar     FermentableType = "sugar"
	FermentableExtract   FermentableType = "extract"
	FermentableFruit     FermentableType = "fruit"
	FermentableOther     FermentableType = "other"
)

// Fermentable is a grain-bill entry on a recipe. PotentialSG is the
// specific gravity a kilogram contributes per liter at 100% efficiency.
type Fermentable struct {
	ID          int64           `json:"id"`
	RecipeID    int64           `json:"recipe_id"`
	Name        string          `json:"name"`
	Type        FermentableType `json:"type"`
	AmountKg    float64         `json:"amount_kg"`
	PotentialSG float64         `json:"potential_sg"`
	ColorSRM    float64         `json:"color_srm"`
	SortOrder   int             `json:"sort_order"`
}

// HopUse describes when a hop addition goes into the wort.
type HopUse string

const (
	HopUseBoil      HopUse = "boil"
	HopUseWhirlpool HopUse = "whirlpool"
	HopUseDryHop    HopUse = "dry_hop"
	HopUseFirstWort HopUse = "first_wort"
	HopUseMash      HopUse = "mash"
)

// HopForm is the physical form of a hop product.
type HopForm string

const (
	HopFormPellet HopForm = "pellet"
	HopFormWhole  HopForm = "whole"
	HopFormPlug   HopForm = "plug"
)

// Hop is a single hop addition on a recipe schedule.
type Hop struct {
	ID           int64   `json:"id"`
	RecipeID     int64   `json:"recipe_id"`
	Name         string  `json:"name"`
	Origin       string  `json:"origin"`
	AlphaAcidPct float64 `json:"alpha_acid_pct"`
	AmountGrams  float64 `json:"amount_grams"`
	Use          HopUse  `json:"use"`
	TimeMinutes  int     `json:"time_minutes"`
	Form         HopForm `json:"form"`
	SortOrder    int     `json:"sort_order"`
}

// YeastStrain is reference data shared across recipes.
type YeastStrain struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Producer       string    `json:"producer"`
	AttenuationMin float64   `json:"attenuation_min"`
	AttenuationMax float64   `json:"attenuation_max"`
	TempMinC       float64   `json:"temp_min_c"`
	TempMaxC       float64   `json:"temp_max_c"`
	Flocculation   string    `json:"flocculation"`
	CreatedAt      time.Time `json:"created_at"`
}

// Attenuation returns the midpoint of the strain's attenuation range.
func (y YeastStrain) Attenuation() float64 {
	return (y.AttenuationMin + y.AttenuationMax) / 2
}

// Recipe holds metadata, batch parameters, and ingredient collections.
// The Target* fields are a cached projection of the calculated stats;
// they are recomputed from ingredients on every save and are never the
// source of truth.
type Recipe struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Author         string  `json:"author"`
	Style          string  `json:"style"`
	StyleID        *int64  `json:"style_id"`
	BatchSizeL     float64 `json:"batch_size_l"`
	BoilSizeL      float64 `json:"boil_size_l"`
	EfficiencyPct  float64 `json:"efficiency_pct"`
	BoilTimeMin    int     `json:"boil_time_min"`
	MashTimeMin    int     `json:"mash_time_min"`
	YeastStrainID  *int64  `json:"yeast_strain_id"`
	YeastName      string  `json:"yeast_name"`
	AttenuationPct float64 `json:"attenuation_pct"`

	TargetOG  float64 `json:"target_og"`
	TargetFG  float64 `json:"target_fg"`
	TargetABV float64 `json:"target_abv"`
	TargetIBU float64 `json:"target_ibu"`
	TargetSRM float64 `json:"target_srm"`

	Fermentables []Fermentable `json:"fermentables"`
	Hops         []Hop         `json:"hops"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalGrainKg sums the grain bill mass.
func (r *Recipe) TotalGrainKg() float64 {
	var total float64
	for _, f := range r.Fermentables {
		total += f.AmountKg
	}
	return total
}
