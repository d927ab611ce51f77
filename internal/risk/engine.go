package risk

import (
	"fmt"
	"math"

	"github.com/glucoguide/glucoguide/internal/apperr"
)

// Result is the outcome of one risk assessment.
type Result struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
	Tier        string  `json:"riskLevel"`
}

// Engine runs the trained stacking pipeline over clinical records. It is
// stateless beyond the immutable artifact and safe for concurrent use.
type Engine struct {
	artifact *Artifact
}

// NewEngine wraps a loaded model artifact.
func NewEngine(artifact *Artifact) *Engine {
	return &Engine{artifact: artifact}
}

// ArtifactVersion reports the loaded model version, for startup logging.
func (e *Engine) ArtifactVersion() string {
	return e.artifact.Version
}

// Assess derives features, standardizes them with the frozen scaler, runs
// both base ensembles and the meta-classifier, and maps the probability to
// a tier. Pipeline failures surface as MODEL errors; there is never a
// fallback tier.
func (e *Engine) Assess(rec ClinicalRecord) (Result, error) {
	if err := validateRecord(rec); err != nil {
		return Result{}, err
	}

	features := e.artifact.Derive(rec)
	scaled := e.artifact.Standardize(features)

	pForest, err := e.artifact.Forest.predict(scaled)
	if err != nil {
		return Result{}, apperr.NewModel(err)
	}
	pBoost, err := e.artifact.Boost.predict(scaled)
	if err != nil {
		return Result{}, apperr.NewModel(err)
	}

	p := e.artifact.Meta.predict(pForest, pBoost)
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Result{}, apperr.NewModel(fmt.Errorf("meta classifier produced probability %v", p))
	}

	prediction := 0
	if p >= 0.5 {
		prediction = 1
	}
	return Result{
		Prediction:  prediction,
		Probability: p,
		Tier:        TierFor(p),
	}, nil
}

func validateRecord(rec ClinicalRecord) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"Pregnancies", rec.Pregnancies},
		{"Glucose", rec.Glucose},
		{"BloodPressure", rec.BloodPressure},
		{"SkinThickness", rec.SkinThickness},
		{"Insulin", rec.Insulin},
		{"BMI", rec.BMI},
		{"DiabetesPedigreeFunction", rec.DiabetesPedigreeFunction},
		{"Age", rec.Age},
	}
	var bad []string
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			bad = append(bad, f.name)
		}
	}
	if len(bad) > 0 {
		return apperr.NewValidation("fields must be non-negative numbers", bad...)
	}
	return nil
}
