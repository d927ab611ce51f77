package risk

// ratioEpsilon keeps the glucose/insulin ratio finite when insulin is
// missing-and-unimputed in intermediate states. Matches the training
// pipeline exactly.
const ratioEpsilon = 1e-6

// ClinicalRecord holds the raw clinical measurements for one assessment.
// Zero is a sentinel for "not measured" in glucose, blood pressure, skin
// thickness, insulin, and BMI; it is never a true value for those fields.
type ClinicalRecord struct {
	Pregnancies              float64 `json:"Pregnancies"`
	Glucose                  float64 `json:"Glucose"`
	BloodPressure            float64 `json:"BloodPressure"`
	SkinThickness            float64 `json:"SkinThickness"`
	Insulin                  float64 `json:"Insulin"`
	BMI                      float64 `json:"BMI"`
	DiabetesPedigreeFunction float64 `json:"DiabetesPedigreeFunction"`
	Age                      float64 `json:"Age"`
}

// FeatureVector is the model input in artifact order.
type FeatureVector [numFeatures]float64

// Derive builds the feature vector from a record using only the frozen
// training statistics: sentinel zeros become training medians, the
// glucose/insulin ratio is capped at the training 95th percentile, and BMI
// is bucketed. Insulin feeds the ratio but is not itself a model input.
func (a *Artifact) Derive(rec ClinicalRecord) FeatureVector {
	glucose := imputeZero(rec.Glucose, a.Medians.Glucose)
	bloodPressure := imputeZero(rec.BloodPressure, a.Medians.BloodPressure)
	skinThickness := imputeZero(rec.SkinThickness, a.Medians.SkinThickness)
	insulin := imputeZero(rec.Insulin, a.Medians.Insulin)
	bmi := imputeZero(rec.BMI, a.Medians.BMI)

	ratio := glucose / (insulin + ratioEpsilon)
	if ratio > a.RatioCap {
		ratio = a.RatioCap
	}

	return FeatureVector{
		featPregnancies:   rec.Pregnancies,
		featGlucose:       glucose,
		featBloodPressure: bloodPressure,
		featSkinThickness: skinThickness,
		featBMI:           bmi,
		featPedigree:      rec.DiabetesPedigreeFunction,
		featAge:           rec.Age,
		featRatio:         ratio,
		featBMICategory:   float64(bmiCategory(bmi)),
	}
}

// Standardize applies the frozen training scaler to a feature vector.
func (a *Artifact) Standardize(f FeatureVector) []float64 {
	out := make([]float64, numFeatures)
	for i := range f {
		out[i] = (f[i] - a.Scaler.Mean[i]) / a.Scaler.Std[i]
	}
	return out
}

func imputeZero(v, median float64) float64 {
	if v == 0 {
		return median
	}
	return v
}

// bmiCategory buckets BMI: 0 underweight, 1 normal, 2 overweight, 3 obese.
func bmiCategory(bmi float64) int {
	switch {
	case bmi <= 18.5:
		return 0
	case bmi <= 25:
		return 1
	case bmi <= 30:
		return 2
	default:
		return 3
	}
}
