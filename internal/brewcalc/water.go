package brewcalc

const (
	// mashRatioLPerKg is the mash thickness: liters of strike water per
	// kilogram of grain.
	mashRatioLPerKg = 3.0
	// absorptionLPerKg is the water retained by spent grain.
	absorptionLPerKg = 1.0
	// boilOffLPerHour is the evaporation rate during a rolling boil.
	boilOffLPerHour = 4.0
)

// WaterVolumes holds the calculated brew-day water plan in liters.
type WaterVolumes struct {
	MashL   float64 `json:"mash_l"`
	SpargeL float64 `json:"sparge_l"`
	TotalL  float64 `json:"total_l"`
	BoilL   float64 `json:"boil_l"`
}

// Water calculates mash, sparge, and total water volumes. When boilSizeL
// is zero the pre-boil volume is derived from the batch size plus
// boil-off for the given boil length. Grain absorption is deducted from
// the mash runnings when sizing the sparge. All volumes clamp at zero.
func Water(batchSizeL, totalGrainKg float64, boilTimeMin int, boilSizeL float64) WaterVolumes {
	if batchSizeL <= 0 {
		return WaterVolumes{}
	}
	if totalGrainKg < 0 {
		totalGrainKg = 0
	}

	boil := boilSizeL
	if boil <= 0 {
		boil = batchSizeL + boilOffLPerHour*float64(boilTimeMin)/60
	}

	mash := totalGrainKg * mashRatioLPerKg
	absorbed := totalGrainKg * absorptionLPerKg
	runnings := mash - absorbed
	if runnings < 0 {
		runnings = 0
	}

	sparge := boil - runnings
	if sparge < 0 {
		sparge = 0
	}

	return WaterVolumes{
		MashL:   mash,
		SpargeL: sparge,
		TotalL:  mash + sparge,
		BoilL:   boil,
	}
}
