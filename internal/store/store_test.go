package store

import (
	"testing"
	"time"

	"github.com/glucoguide/glucoguide/internal/catalog"
	"github.com/glucoguide/glucoguide/internal/risk"
)

func fixedClock() func() time.Time {
	at := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestProfilesPutStampsLastUpdated(t *testing.T) {
	profiles := NewProfilesWithClock(fixedClock())

	stored := profiles.Put("u1", Profile{DietType: "vegetarian", Allergies: []string{"peanut"}})
	if stored.LastUpdated != "2024-06-01 10:30:00" {
		t.Errorf("LastUpdated = %q", stored.LastUpdated)
	}

	got, ok := profiles.Get("u1")
	if !ok {
		t.Fatal("profile not stored")
	}
	if got.DietType != "vegetarian" || len(got.Allergies) != 1 {
		t.Errorf("stored profile = %+v", got)
	}

	if _, ok := profiles.Get("nobody"); ok {
		t.Error("Get returned a profile for an unknown user")
	}
}

func TestAssessmentsOverwrite(t *testing.T) {
	assessments := NewAssessmentsWithClock(fixedClock())

	assessments.Put("u1", risk.ClinicalRecord{Glucose: 100}, risk.Result{Probability: 0.2, Tier: "Low"})
	assessments.Put("u1", risk.ClinicalRecord{Glucose: 180}, risk.Result{Probability: 0.8, Prediction: 1, Tier: "High"})

	last, ok := assessments.Last("u1")
	if !ok {
		t.Fatal("no assessment stored")
	}
	if last.Result.Tier != "High" || last.Record.Glucose != 180 {
		t.Errorf("Last = %+v, want the most recent assessment", last)
	}
}

func TestMealLogDeduplicatesPerDay(t *testing.T) {
	log := NewMealLog()
	meal := catalog.Meal{ID: 3, Name: "Palak Paneer with Roti", Calories: 350}

	if !log.Add("u1", "2024-06-01", meal) {
		t.Fatal("first Add returned false")
	}
	if log.Add("u1", "2024-06-01", meal) {
		t.Error("duplicate id added twice on one day")
	}
	if !log.Add("u1", "2024-06-02", meal) {
		t.Error("same meal on another day should be allowed")
	}
	if got := len(log.List("u1", "2024-06-01")); got != 1 {
		t.Errorf("day has %d meals, want 1", got)
	}
}

func TestMealLogRemove(t *testing.T) {
	log := NewMealLog()
	log.Add("u1", "2024-06-01", catalog.Meal{ID: 1, Name: "Oats"})
	log.Add("u1", "2024-06-01", catalog.Meal{ID: 2, Name: "Dal"})

	if !log.Remove("u1", "2024-06-01", 1) {
		t.Fatal("Remove returned false for a logged meal")
	}
	if log.Remove("u1", "2024-06-01", 1) {
		t.Error("Remove succeeded twice for the same id")
	}
	left := log.List("u1", "2024-06-01")
	if len(left) != 1 || left[0].ID != 2 {
		t.Errorf("remaining meals = %+v", left)
	}
}

func TestExerciseLogKeepsRepeatedSessions(t *testing.T) {
	log := NewExerciseLog()
	walk := ExerciseEntry{Exercise: catalog.Exercise{ID: 1, Name: "Walking", Duration: 30, Intensity: "Low"}, UserDuration: 20}

	log.Add("u1", "2024-06-01", walk)
	log.Add("u1", "2024-06-01", walk)

	sessions := log.List("u1", "2024-06-01")
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].Date != "2024-06-01" {
		t.Errorf("Date = %q, want the log date", sessions[0].Date)
	}
}

func TestSummarizeAggregates(t *testing.T) {
	meals := []catalog.Meal{
		{ID: 1, Calories: 300, Carbs: 40, GlycemicIndex: "low"},
		{ID: 2, Calories: 450, Carbs: 55, GlycemicIndex: "medium"},
		{ID: 3, Calories: 250, Carbs: 20, GlycemicIndex: "high"},
	}
	sessions := []ExerciseEntry{
		{Exercise: catalog.Exercise{ID: 1, Duration: 30, Intensity: "Low"}, UserDuration: 45},
		{Exercise: catalog.Exercise{ID: 2, Duration: 20, Intensity: "Moderate"}},
	}

	s := Summarize("2024-06-01", meals, sessions)
	if s.TotalCalories != 1000 {
		t.Errorf("TotalCalories = %d, want 1000", s.TotalCalories)
	}
	if s.TotalCarbs != 115 {
		t.Errorf("TotalCarbs = %d, want 115", s.TotalCarbs)
	}
	// 1+2+3 over 3 meals = 2.0
	if s.AverageGI != "medium" {
		t.Errorf("AverageGI = %q, want medium", s.AverageGI)
	}
	// 45 logged minutes plus the 20-minute catalog default
	if s.ExerciseMinutes != 65 {
		t.Errorf("ExerciseMinutes = %d, want 65", s.ExerciseMinutes)
	}
	if len(s.Intensities) != 2 {
		t.Errorf("Intensities = %v", s.Intensities)
	}
}

func TestSummarizeGIEdges(t *testing.T) {
	cases := []struct {
		gis  []string
		want string
	}{
		{[]string{"low", "low"}, "low"},
		{[]string{"low", "medium"}, "low"}, // mean 1.5 sits on the low edge
		{[]string{"medium", "medium"}, "medium"},
		{[]string{"medium", "high"}, "medium"}, // mean 2.5 sits on the medium edge
		{[]string{"high", "high"}, "high"},
	}
	for _, tc := range cases {
		var meals []catalog.Meal
		for i, gi := range tc.gis {
			meals = append(meals, catalog.Meal{ID: i + 1, GlycemicIndex: gi})
		}
		if s := Summarize("2024-06-01", meals, nil); s.AverageGI != tc.want {
			t.Errorf("Summarize(%v).AverageGI = %q, want %q", tc.gis, s.AverageGI, tc.want)
		}
	}
}

func TestSummarizeEmptyDay(t *testing.T) {
	s := Summarize("2024-06-01", nil, nil)
	if s.TotalCalories != 0 || s.AverageGI != "" || s.ExerciseMinutes != 0 {
		t.Errorf("empty-day summary = %+v", s)
	}
}
