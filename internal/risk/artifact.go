package risk

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// numFeatures is the width of the model's input vector: the clinical fields
// minus insulin, plus the derived ratio and BMI category.
const numFeatures = 9

// Feature indexes into a FeatureVector.
const (
	featPregnancies = iota
	featGlucose
	featBloodPressure
	featSkinThickness
	featBMI
	featPedigree
	featAge
	featRatio
	featBMICategory
)

//go:embed artifact.json
var artifactJSON []byte

// Medians are the per-column imputation values computed over the non-zero
// training rows. They are frozen at training time; a single request has no
// distribution to recompute them from.
type Medians struct {
	Glucose       float64 `json:"glucose"`
	BloodPressure float64 `json:"blood_pressure"`
	SkinThickness float64 `json:"skin_thickness"`
	Insulin       float64 `json:"insulin"`
	BMI           float64 `json:"bmi"`
}

// Scaler holds the standardization parameters fitted during training.
// Inference must use these exact values, never a re-fit.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Forest is a bagged-tree ensemble; each tree's leaf holds a class-1
// probability and the forest prediction is their mean.
type Forest struct {
	Trees []Tree `json:"trees"`
}

// Boost is a boosted-tree ensemble; leaves hold additive margin
// contributions on top of the bias, squashed through a sigmoid.
type Boost struct {
	Bias  float64 `json:"bias"`
	Trees []Tree  `json:"trees"`
}

// Meta is the logistic meta-classifier stacked over the two base learners.
type Meta struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Artifact is the versioned, immutable model bundle: frozen training
// statistics plus the serialized ensemble. Retraining produces a new
// artifact; nothing here is recomputed at request time.
type Artifact struct {
	Version      string   `json:"version"`
	FeatureNames []string `json:"feature_names"`
	Medians      Medians  `json:"imputation_medians"`
	RatioCap     float64  `json:"ratio_cap"`
	Scaler       Scaler   `json:"scaler"`
	Forest       Forest   `json:"bagged_trees"`
	Boost        Boost    `json:"boosted_trees"`
	Meta         Meta     `json:"meta"`
}

// LoadArtifact parses and validates the embedded model artifact. A corrupt
// artifact is a startup failure, not something to degrade around.
func LoadArtifact() (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(artifactJSON, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("model artifact %q: %w", a.Version, err)
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	if len(a.FeatureNames) != numFeatures {
		return fmt.Errorf("expected %d feature names, got %d", numFeatures, len(a.FeatureNames))
	}
	if len(a.Scaler.Mean) != numFeatures || len(a.Scaler.Std) != numFeatures {
		return fmt.Errorf("scaler must carry %d means and stds", numFeatures)
	}
	for i, std := range a.Scaler.Std {
		if std <= 0 {
			return fmt.Errorf("scaler std[%d] = %v, must be positive", i, std)
		}
	}
	for _, med := range []float64{
		a.Medians.Glucose, a.Medians.BloodPressure, a.Medians.SkinThickness,
		a.Medians.Insulin, a.Medians.BMI,
	} {
		if med <= 0 {
			return fmt.Errorf("imputation medians must be positive, got %v", med)
		}
	}
	if a.RatioCap <= 0 {
		return fmt.Errorf("ratio cap must be positive, got %v", a.RatioCap)
	}
	if len(a.Forest.Trees) == 0 || len(a.Boost.Trees) == 0 {
		return fmt.Errorf("both base ensembles need at least one tree")
	}
	for i, t := range a.Forest.Trees {
		if err := t.validate(); err != nil {
			return fmt.Errorf("bagged tree %d: %w", i, err)
		}
	}
	for i, t := range a.Boost.Trees {
		if err := t.validate(); err != nil {
			return fmt.Errorf("boosted tree %d: %w", i, err)
		}
	}
	if len(a.Meta.Weights) != 2 {
		return fmt.Errorf("meta classifier takes 2 base probabilities, got %d weights", len(a.Meta.Weights))
	}
	return nil
}
