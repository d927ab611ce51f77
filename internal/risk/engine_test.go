package risk

import (
	"testing"

	"github.com/glucoguide/glucoguide/internal/apperr"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(testArtifact(t))
}

func TestTierThresholdsExact(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{0.0, TierLow},
		{0.29, TierLow},
		{0.30, TierModerate},
		{0.69, TierModerate},
		{0.70, TierHigh},
		{1.0, TierHigh},
	}
	for _, c := range cases {
		if got := TierFor(c.p); got != c.want {
			t.Errorf("TierFor(%v) = %s, want %s", c.p, got, c.want)
		}
	}
}

func TestAssessIsDeterministic(t *testing.T) {
	e := testEngine(t)
	rec := ClinicalRecord{
		Pregnancies: 3, Glucose: 130, BloodPressure: 76, SkinThickness: 30,
		Insulin: 120, BMI: 31, DiabetesPedigreeFunction: 0.6, Age: 45,
	}

	first, err := e.Assess(rec)
	if err != nil {
		t.Fatalf("Assess failed: %v", err)
	}
	second, err := e.Assess(rec)
	if err != nil {
		t.Fatalf("Assess failed: %v", err)
	}
	if first != second {
		t.Errorf("same record gave %+v then %+v", first, second)
	}
}

func TestAssessWithSentinelZerosDoesNotCrash(t *testing.T) {
	e := testEngine(t)
	res, err := e.Assess(ClinicalRecord{
		Pregnancies: 1, Glucose: 0, BloodPressure: 0, SkinThickness: 0,
		Insulin: 0, BMI: 0, DiabetesPedigreeFunction: 0.3, Age: 29,
	})
	if err != nil {
		t.Fatalf("Assess failed: %v", err)
	}
	if res.Probability < 0 || res.Probability > 1 {
		t.Errorf("probability = %v, want [0,1]", res.Probability)
	}
	switch res.Tier {
	case TierLow, TierModerate, TierHigh:
	default:
		t.Errorf("tier = %q, want one of Low/Moderate/High", res.Tier)
	}
}

func TestAssessOrdersRiskSensibly(t *testing.T) {
	e := testEngine(t)

	healthy, err := e.Assess(ClinicalRecord{
		Pregnancies: 1, Glucose: 85, BloodPressure: 64, SkinThickness: 20,
		Insulin: 90, BMI: 22, DiabetesPedigreeFunction: 0.2, Age: 24,
	})
	if err != nil {
		t.Fatalf("Assess healthy failed: %v", err)
	}
	risky, err := e.Assess(ClinicalRecord{
		Pregnancies: 9, Glucose: 185, BloodPressure: 96, SkinThickness: 42,
		Insulin: 20, BMI: 41, DiabetesPedigreeFunction: 1.3, Age: 58,
	})
	if err != nil {
		t.Fatalf("Assess risky failed: %v", err)
	}

	if healthy.Probability >= risky.Probability {
		t.Errorf("healthy p=%v >= risky p=%v", healthy.Probability, risky.Probability)
	}
	if healthy.Tier != TierLow {
		t.Errorf("healthy tier = %s, want Low", healthy.Tier)
	}
	if risky.Tier != TierHigh {
		t.Errorf("risky tier = %s, want High", risky.Tier)
	}
	if healthy.Prediction != 0 || risky.Prediction != 1 {
		t.Errorf("predictions = %d/%d, want 0/1", healthy.Prediction, risky.Prediction)
	}
}

func TestAssessRejectsNegativeValues(t *testing.T) {
	e := testEngine(t)
	_, err := e.Assess(ClinicalRecord{Glucose: -5, Age: 30})
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
}

func TestParseRecordNamesMissingFields(t *testing.T) {
	_, err := ParseRecord(map[string]any{"Glucose": 120.0})
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
	fields := apperr.From(err).Details["fields"].([]string)
	if len(fields) != 7 {
		t.Errorf("missing fields = %v, want the 7 absent ones", fields)
	}
}

func TestParseRecordRejectsNonNumeric(t *testing.T) {
	raw := map[string]any{
		"Pregnancies": 1.0, "Glucose": "abc", "BloodPressure": 70.0,
		"SkinThickness": 20.0, "Insulin": 80.0, "BMI": 25.0,
		"DiabetesPedigreeFunction": 0.4, "Age": 33.0,
	}
	_, err := ParseRecord(raw)
	if !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
	fields := apperr.From(err).Details["fields"].([]string)
	if len(fields) != 1 || fields[0] != "Glucose" {
		t.Errorf("invalid fields = %v, want [Glucose]", fields)
	}
}

func TestParseRecordAcceptsNumericStrings(t *testing.T) {
	raw := map[string]any{
		"Pregnancies": "2", "Glucose": 120.0, "BloodPressure": 70.0,
		"SkinThickness": 20.0, "Insulin": 80.0, "BMI": "27.5",
		"DiabetesPedigreeFunction": 0.4, "Age": 33.0,
	}
	rec, err := ParseRecord(raw)
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}
	if rec.Pregnancies != 2 || rec.BMI != 27.5 {
		t.Errorf("parsed record = %+v", rec)
	}
}
