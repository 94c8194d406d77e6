package model

// Style is a BJCP style entry with its vital-statistics ranges, used for
// recipe conformance checking. A zero Max disables the check for that
// stat.
type Style struct {
	ID       int64   `json:"id"`
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	OGMin    float64 `json:"og_min"`
	OGMax    float64 `json:"og_max"`
	FGMin    float64 `json:"fg_min"`
	FGMax    float64 `json:"fg_max"`
	ABVMin   float64 `json:"abv_min"`
	ABVMax   float64 `json:"abv_max"`
	IBUMin   float64 `json:"ibu_min"`
	IBUMax   float64 `json:"ibu_max"`
	SRMMin   float64 `json:"srm_min"`
	SRMMax   float64 `json:"srm_max"`
}
