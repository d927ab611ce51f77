package recommend

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/glucoguide/glucoguide/internal/catalog"
)

// stripFences removes a markdown code fence around the payload. Generators
// often wrap JSON in ```json blocks even when asked not to.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

type genMeal struct {
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Calories            json.RawMessage `json:"calories"`
	Carbs               json.RawMessage `json:"carbs"`
	GlycemicIndex       string          `json:"glycemic_index"`
	Ingredients         json.RawMessage `json:"ingredients"`
	Instructions        string          `json:"instructions"`
	NutritionalBenefits string          `json:"nutritional_benefits"`
}

// parseGeneratedMeals decodes generator output into catalog meals. The
// payload may be a bare array or wrapped in a {"recipes": [...]} object;
// ingredients may be an array or one comma-separated string; numbers may
// arrive as strings. Ids are left zero for the caller to assign.
func parseGeneratedMeals(raw string) ([]catalog.Meal, error) {
	payload := stripFences(raw)

	var items []genMeal
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		var wrapped struct {
			Recipes []genMeal `json:"recipes"`
			Meals   []genMeal `json:"meals"`
		}
		if err2 := json.Unmarshal([]byte(payload), &wrapped); err2 != nil {
			return nil, fmt.Errorf("unparseable recipe payload: %w", err)
		}
		items = wrapped.Recipes
		if len(items) == 0 {
			items = wrapped.Meals
		}
	}

	meals := make([]catalog.Meal, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		gi := strings.ToLower(strings.TrimSpace(it.GlycemicIndex))
		if gi != "low" && gi != "medium" && gi != "high" {
			gi = "low"
		}
		meals = append(meals, catalog.Meal{
			Name:                strings.TrimSpace(it.Name),
			Description:         it.Description,
			Calories:            toInt(it.Calories),
			Carbs:               toInt(it.Carbs),
			GlycemicIndex:       gi,
			Ingredients:         parseIngredients(it.Ingredients),
			Instructions:        it.Instructions,
			NutritionalBenefits: it.NutritionalBenefits,
		})
	}
	if len(meals) == 0 {
		return nil, fmt.Errorf("recipe payload contained no usable recipes")
	}
	return meals, nil
}

func parseIngredients(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		parts := strings.Split(single, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

// toInt parses a JSON number that may arrive quoted or fractional.
func toInt(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

type genExercise struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Duration    json.RawMessage `json:"duration"`
	Intensity   string          `json:"intensity"`
	Benefits    string          `json:"benefits"`
}

// parseGeneratedExercises decodes generator output into catalog exercises,
// with the same tolerance as parseGeneratedMeals.
func parseGeneratedExercises(raw string) ([]catalog.Exercise, error) {
	payload := stripFences(raw)

	var items []genExercise
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		var wrapped struct {
			Exercises []genExercise `json:"exercises"`
		}
		if err2 := json.Unmarshal([]byte(payload), &wrapped); err2 != nil {
			return nil, fmt.Errorf("unparseable exercise payload: %w", err)
		}
		items = wrapped.Exercises
	}

	exercises := make([]catalog.Exercise, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		exercises = append(exercises, catalog.Exercise{
			Name:        strings.TrimSpace(it.Name),
			Description: it.Description,
			Duration:    toInt(it.Duration),
			Intensity:   it.Intensity,
			Benefits:    it.Benefits,
		})
	}
	if len(exercises) == 0 {
		return nil, fmt.Errorf("exercise payload contained no usable exercises")
	}
	return exercises, nil
}
