package recommend

import (
	"fmt"
	"time"

	"github.com/glucoguide/glucoguide/internal/apperr"
	"github.com/glucoguide/glucoguide/internal/catalog"
	"github.com/glucoguide/glucoguide/internal/store"
)

const maxPlanDays = 14

var mealTypes = []string{"Breakfast", "Lunch", "Dinner"}

// PlannedMeal is one slot in a day plan.
type PlannedMeal struct {
	MealType string         `json:"mealType"`
	Recipes  []catalog.Meal `json:"recipes"`
}

// DayPlan is one day of a generated meal plan.
type DayPlan struct {
	Date  string        `json:"date"`
	Meals []PlannedMeal `json:"meals"`
}

// GeneratePlan builds and stores a meal plan for the user: one random
// allergy-filtered catalog meal per slot per day. The plan replaces any
// previous one.
func (s *Service) GeneratePlan(userID string, profile store.Profile, days int, start time.Time) ([]DayPlan, error) {
	if days <= 0 {
		days = 7
	}
	if days > maxPlanDays {
		return nil, apperr.NewValidation(fmt.Sprintf("plan length is capped at %d days", maxPlanDays), "days")
	}
	diet := profile.DietType
	if diet == "" {
		diet = "vegetarian"
	}
	meals, ok := s.catalog.MealsForDiet(diet)
	if !ok {
		return nil, apperr.NewValidation(fmt.Sprintf("unknown diet type %q", diet), "dietType")
	}
	meals = filterByTerms(meals, append(append([]string{}, profile.Allergies...), profile.Avoidances...))
	if len(meals) == 0 {
		return nil, apperr.NewNotFound("no meals match the profile's restrictions")
	}
	annotateMeals(meals)

	s.planMu.Lock()
	defer s.planMu.Unlock()

	plan := make([]DayPlan, 0, days)
	for d := 0; d < days; d++ {
		day := DayPlan{Date: start.AddDate(0, 0, d).Format(store.DateLayout)}
		for _, mt := range mealTypes {
			pick := meals[s.rng.Intn(len(meals))]
			day.Meals = append(day.Meals, PlannedMeal{MealType: mt, Recipes: []catalog.Meal{pick}})
		}
		plan = append(plan, day)
	}
	s.plans[userID] = plan
	return plan, nil
}

// Plan returns the user's stored meal plan.
func (s *Service) Plan(userID string) ([]DayPlan, bool) {
	s.planMu.Lock()
	defer s.planMu.Unlock()
	plan, ok := s.plans[userID]
	return plan, ok
}
