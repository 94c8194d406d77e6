package model

import "time"

// TastingNote records a structured evaluation of a finished batch. Two
// schemas coexist: the legacy five-category 1-5 star form (SchemaVersion
// 1) and the BJCP 50-point scoresheet (SchemaVersion 2). Total score and
// rating band are always derived, never stored.
type TastingNote struct {
	ID            int64 `json:"id"`
	BatchID       int64 `json:"batch_id"`
	SchemaVersion int   `json:"schema_version"`

	// Legacy schema: 1-5 stars per category.
	Appearance int `json:"appearance"`
	Aroma      int `json:"aroma"`
	Flavor     int `json:"flavor"`
	Mouthfeel  int `json:"mouthfeel"`
	Overall    int `json:"overall"`

	// BJCP schema: subcategory point scores. Maxima: aroma 12,
	// appearance 3, flavor 20, mouthfeel 5, overall 10.
	BJCPAroma      int `json:"bjcp_aroma"`
	BJCPAppearance int `json:"bjcp_appearance"`
	BJCPFlavor     int `json:"bjcp_flavor"`
	BJCPMouthfeel  int `json:"bjcp_mouthfeel"`
	BJCPOverall    int `json:"bjcp_overall"`

	AppearanceNotes string `json:"appearance_notes"`
	AromaNotes      string `json:"aroma_notes"`
	FlavorNotes     string `json:"flavor_notes"`
	MouthfeelNotes  string `json:"mouthfeel_notes"`
	OverallNotes    string `json:"overall_notes"`

	ServingTempC    *float64 `json:"serving_temp_c"`
	Glassware       string   `json:"glassware"`
	StyleConformant *bool    `json:"style_conformant"`

	TastedAt  time.Time `json:"tasted_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalScore returns the BJCP 50-point total for schema version 2, or the
// legacy star sum (max 25) otherwise.
func (n *TastingNote) TotalScore() int {
	if n.SchemaVersion >= 2 {
		return n.BJCPAroma + n.BJCPAppearance + n.BJCPFlavor + n.BJCPMouthfeel + n.BJCPOverall
	}
	return n.Appearance + n.Aroma + n.Flavor + n.Mouthfeel + n.Overall
}

// RatingBand maps a BJCP total score to its qualitative band.
func RatingBand(score int) string {
	switch {
	case score >= 45:
		return "Outstanding"
	case score >= 38:
		return "Excellent"
	case score >= 30:
		return "Very Good"
	case score >= 21:
		return "Good"
	case score >= 14:
		return "Fair"
	default:
		return "Problematic"
	}
}
