// Package catalog holds the static meal and exercise reference data. The
// catalogs are embedded in the binary and loaded once at startup; callers
// always receive copies.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed data/meals.json
var mealsJSON []byte

//go:embed data/exercises.json
var exercisesJSON []byte

// Meal is one recipe in the meal catalog. The same shape is used for
// generated recipes once the merger has assigned them an id.
type Meal struct {
	ID                  int      `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Calories            int      `json:"calories"`
	Carbs               int      `json:"carbs"`
	GlycemicIndex       string   `json:"glycemic_index"`
	Ingredients         []string `json:"ingredients"`
	Instructions        string   `json:"instructions"`
	NutritionalBenefits string   `json:"nutritional_benefits"`
	Diet                string   `json:"diet"`
	DiabetesTips        string   `json:"diabetes_tips,omitempty"`
}

// Exercise is one entry in the exercise catalog.
type Exercise struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Intensity   string `json:"intensity"`
	Benefits    string `json:"benefits"`
}

// Store is the loaded, immutable catalog.
type Store struct {
	mealsByDiet   map[string][]Meal
	exercises     []Exercise
	maxMealID     int
	maxExerciseID int
}

// Load parses the embedded catalogs. It fails only if the embedded data is
// corrupt, which means the binary itself is broken.
func Load() (*Store, error) {
	var mealsByDiet map[string][]Meal
	if err := json.Unmarshal(mealsJSON, &mealsByDiet); err != nil {
		return nil, fmt.Errorf("parse meal catalog: %w", err)
	}
	var exercises []Exercise
	if err := json.Unmarshal(exercisesJSON, &exercises); err != nil {
		return nil, fmt.Errorf("parse exercise catalog: %w", err)
	}

	s := &Store{mealsByDiet: mealsByDiet, exercises: exercises}
	seen := make(map[int]string)
	for diet, meals := range mealsByDiet {
		for _, m := range meals {
			if m.ID <= 0 {
				return nil, fmt.Errorf("meal %q has non-positive id %d", m.Name, m.ID)
			}
			if prev, dup := seen[m.ID]; dup {
				return nil, fmt.Errorf("meal id %d used by both %q and %q", m.ID, prev, m.Name)
			}
			seen[m.ID] = m.Name
			if m.Diet != diet {
				return nil, fmt.Errorf("meal %d tagged %q but filed under %q", m.ID, m.Diet, diet)
			}
			if m.ID > s.maxMealID {
				s.maxMealID = m.ID
			}
		}
	}
	for _, e := range exercises {
		if e.ID <= 0 {
			return nil, fmt.Errorf("exercise %q has non-positive id %d", e.Name, e.ID)
		}
		if e.ID > s.maxExerciseID {
			s.maxExerciseID = e.ID
		}
	}
	return s, nil
}

// MealsForDiet returns a copy of the meals for one diet type. The bool is
// false when the diet type is unknown.
func (s *Store) MealsForDiet(diet string) ([]Meal, bool) {
	meals, ok := s.mealsByDiet[diet]
	if !ok {
		return nil, false
	}
	out := make([]Meal, len(meals))
	copy(out, meals)
	return out, true
}

// MealByID searches every diet partition for the given id.
func (s *Store) MealByID(id int) (Meal, bool) {
	for _, meals := range s.mealsByDiet {
		for _, m := range meals {
			if m.ID == id {
				return m, true
			}
		}
	}
	return Meal{}, false
}

// Exercises returns a copy of the static exercise list.
func (s *Store) Exercises() []Exercise {
	out := make([]Exercise, len(s.exercises))
	copy(out, s.exercises)
	return out
}

// ExerciseByID looks up a static exercise.
func (s *Store) ExerciseByID(id int) (Exercise, bool) {
	for _, e := range s.exercises {
		if e.ID == id {
			return e, true
		}
	}
	return Exercise{}, false
}

// MaxMealID is the highest id across every diet partition. Generated meal
// ids must start above it.
func (s *Store) MaxMealID() int { return s.maxMealID }

// MaxExerciseID is the highest id in the static exercise list.
func (s *Store) MaxExerciseID() int { return s.maxExerciseID }

// IngredientText joins a meal's ingredients for substring matching.
func (m Meal) IngredientText() string {
	return strings.ToLower(strings.Join(m.Ingredients, " "))
}
