package risk

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/glucoguide/glucoguide/internal/apperr"
)

var requiredFields = []string{
	"Pregnancies", "Glucose", "BloodPressure", "SkinThickness",
	"Insulin", "BMI", "DiabetesPedigreeFunction", "Age",
}

// ParseRecord builds a ClinicalRecord from a decoded JSON object. Every
// required field must be present and numeric (numbers and numeric strings
// are accepted); failures name the offending fields.
func ParseRecord(raw map[string]any) (ClinicalRecord, error) {
	var missing []string
	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return ClinicalRecord{}, apperr.NewValidation(
			fmt.Sprintf("missing fields: %v", missing), missing...)
	}

	values := make(map[string]float64, len(requiredFields))
	var invalid []string
	for _, field := range requiredFields {
		v, err := toFloat(raw[field])
		if err != nil {
			invalid = append(invalid, field)
			continue
		}
		values[field] = v
	}
	if len(invalid) > 0 {
		return ClinicalRecord{}, apperr.NewValidation(
			fmt.Sprintf("fields must be numeric: %v", invalid), invalid...)
	}

	return ClinicalRecord{
		Pregnancies:              values["Pregnancies"],
		Glucose:                  values["Glucose"],
		BloodPressure:            values["BloodPressure"],
		SkinThickness:            values["SkinThickness"],
		Insulin:                  values["Insulin"],
		BMI:                      values["BMI"],
		DiabetesPedigreeFunction: values["DiabetesPedigreeFunction"],
		Age:                      values["Age"],
	}, nil
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		return strconv.ParseFloat(t, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
