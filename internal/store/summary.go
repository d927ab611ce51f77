package store

import "github.com/glucoguide/glucoguide/internal/catalog"

// Summary is the aggregate view of one day's logs.
type Summary struct {
	Date            string   `json:"date"`
	MealCount       int      `json:"mealCount"`
	TotalCalories   int      `json:"totalCalories"`
	TotalCarbs      int      `json:"totalCarbs"`
	AverageGI       string   `json:"averageGlycemicIndex,omitempty"`
	ExerciseCount   int      `json:"exerciseCount"`
	ExerciseMinutes int      `json:"exerciseMinutes"`
	Intensities     []string `json:"intensities,omitempty"`
}

// Summarize aggregates a day's meals and exercise sessions. The average
// glycemic index codes low/medium/high as 1/2/3 and maps the mean back:
// <=1.5 low, <=2.5 medium, else high. Unknown GI labels count as medium.
func Summarize(date string, meals []catalog.Meal, sessions []ExerciseEntry) Summary {
	s := Summary{Date: date, MealCount: len(meals), ExerciseCount: len(sessions)}

	giTotal := 0
	for _, m := range meals {
		s.TotalCalories += m.Calories
		s.TotalCarbs += m.Carbs
		giTotal += giScore(m.GlycemicIndex)
	}
	if len(meals) > 0 {
		s.AverageGI = giLabel(float64(giTotal) / float64(len(meals)))
	}

	for _, e := range sessions {
		minutes := e.UserDuration
		if minutes <= 0 {
			minutes = e.Duration
		}
		s.ExerciseMinutes += minutes
		s.Intensities = append(s.Intensities, e.Intensity)
	}
	return s
}

func giScore(label string) int {
	switch label {
	case "low":
		return 1
	case "high":
		return 3
	default:
		return 2
	}
}

func giLabel(mean float64) string {
	switch {
	case mean <= 1.5:
		return "low"
	case mean <= 2.5:
		return "medium"
	default:
		return "high"
	}
}
