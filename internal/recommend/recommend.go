// Package recommend merges catalog items with generated ones into a single
// recommendation stream. Local catalog data always comes first; the
// generator only fills the shortfall, and any generator failure degrades to
// catalog-only results rather than an error.
package recommend

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/glucoguide/glucoguide/internal/apperr"
	"github.com/glucoguide/glucoguide/internal/catalog"
	"github.com/glucoguide/glucoguide/internal/store"
)

// DefaultTargetCount is how many meals a search aims to return.
const DefaultTargetCount = 3

// Generator produces text from a prompt. Satisfied by the gemini client.
type Generator interface {
	Generate(ctx context.Context, prompt string, structured bool) (string, error)
}

// Service merges catalog and generated recommendations.
type Service struct {
	catalog *catalog.Store
	gen     Generator

	nextMealID     atomic.Int64
	nextExerciseID atomic.Int64

	recMu       sync.RWMutex
	recommended map[string][]catalog.Exercise // userID -> generated exercises

	planMu sync.Mutex
	rng    *rand.Rand
	plans  map[string][]DayPlan
}

// NewService seeds the generated-id counters above the catalog maxima so
// generated items never collide with catalog ids.
func NewService(cat *catalog.Store, gen Generator) *Service {
	return NewServiceWithRand(cat, gen, rand.New(rand.NewSource(rand.Int63())))
}

// NewServiceWithRand is for tests that need deterministic plan picks.
func NewServiceWithRand(cat *catalog.Store, gen Generator, rng *rand.Rand) *Service {
	s := &Service{
		catalog:     cat,
		gen:         gen,
		recommended: make(map[string][]catalog.Exercise),
		rng:         rng,
		plans:       make(map[string][]DayPlan),
	}
	s.nextMealID.Store(int64(cat.MaxMealID()))
	s.nextExerciseID.Store(int64(cat.MaxExerciseID()))
	return s
}

// RecommendMeals returns meals for the profile's diet matching the query.
// Catalog matches come first; if fewer than targetCount survive the allergy
// filter, the generator fills the shortfall. Generator failure or malformed
// output degrades to the catalog matches alone.
func (s *Service) RecommendMeals(ctx context.Context, profile store.Profile, query string, targetCount int) ([]catalog.Meal, error) {
	if targetCount <= 0 {
		targetCount = DefaultTargetCount
	}
	diet := profile.DietType
	if diet == "" {
		diet = "vegetarian"
	}
	meals, ok := s.catalog.MealsForDiet(diet)
	if !ok {
		return nil, apperr.NewValidation(fmt.Sprintf("unknown diet type %q", diet), "dietType")
	}

	matched := filterByQuery(meals, query)
	matched = filterByTerms(matched, append(append([]string{}, profile.Allergies...), profile.Avoidances...))

	if len(matched) < targetCount && s.gen != nil {
		generated, err := s.generateMeals(ctx, profile, diet, query, targetCount-len(matched))
		if err != nil {
			log.Printf("recipe generation failed, serving catalog results only: %v", err)
		} else {
			matched = dedupMeals(append(matched, generated...))
		}
	}

	annotateMeals(matched)
	return matched, nil
}

func filterByQuery(meals []catalog.Meal, query string) []catalog.Meal {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return meals
	}
	out := meals[:0:0]
	for _, m := range meals {
		if strings.Contains(strings.ToLower(m.Name), query) ||
			strings.Contains(strings.ToLower(m.Description), query) ||
			strings.Contains(m.IngredientText(), query) {
			out = append(out, m)
		}
	}
	return out
}

func filterByTerms(meals []catalog.Meal, terms []string) []catalog.Meal {
	cleaned := terms[:0:0]
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return meals
	}
	out := meals[:0:0]
	for _, m := range meals {
		name := strings.ToLower(m.Name)
		ingredients := m.IngredientText()
		excluded := false
		for _, t := range cleaned {
			if strings.Contains(name, t) || strings.Contains(ingredients, t) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, m)
		}
	}
	return out
}

func dedupMeals(meals []catalog.Meal) []catalog.Meal {
	seen := make(map[int]bool, len(meals))
	out := meals[:0:0]
	for _, m := range meals {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}

func (s *Service) generateMeals(ctx context.Context, profile store.Profile, diet, query string, count int) ([]catalog.Meal, error) {
	prompt := mealPrompt(profile, diet, query, count)
	raw, err := s.gen.Generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	parsed, err := parseGeneratedMeals(raw)
	if err != nil {
		return nil, err
	}
	for i := range parsed {
		parsed[i].ID = int(s.nextMealID.Add(1))
		parsed[i].Diet = diet
	}
	return parsed, nil
}

func mealPrompt(profile store.Profile, diet, query string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d diabetic-friendly %s recipes", count, diet)
	if query != "" {
		fmt.Fprintf(&b, " matching %q", query)
	}
	b.WriteString(". ")
	if len(profile.Allergies) > 0 {
		fmt.Fprintf(&b, "Strictly avoid these allergens: %s. ", strings.Join(profile.Allergies, ", "))
	}
	if len(profile.Avoidances) > 0 {
		fmt.Fprintf(&b, "Do not use: %s. ", strings.Join(profile.Avoidances, ", "))
	}
	b.WriteString("Respond with a JSON array where each recipe has: name, description, ")
	b.WriteString("calories (integer), carbs (integer grams), glycemic_index (low/medium/high), ")
	b.WriteString("ingredients (array of strings), instructions, nutritional_benefits.")
	return b.String()
}

// RecommendExercises returns generated, profile-tailored exercises followed
// by the static catalog. Generated entries are cached per user so a later
// exercise-log request can resolve their ids. On any generator problem the
// static list is returned alone.
func (s *Service) RecommendExercises(ctx context.Context, userID string, profile store.Profile, last *store.Assessment) []catalog.Exercise {
	static := s.catalog.Exercises()
	if s.gen == nil {
		return static
	}

	raw, err := s.gen.Generate(ctx, exercisePrompt(profile, last), true)
	if err != nil {
		log.Printf("exercise generation failed, serving static list: %v", err)
		return static
	}
	generated, err := parseGeneratedExercises(raw)
	if err != nil {
		log.Printf("exercise generation unparseable, serving static list: %v", err)
		return static
	}
	for i := range generated {
		generated[i].ID = int(s.nextExerciseID.Add(1))
	}

	s.recMu.Lock()
	s.recommended[userID] = append(s.recommended[userID], generated...)
	s.recMu.Unlock()

	return append(generated, static...)
}

func exercisePrompt(profile store.Profile, last *store.Assessment) string {
	var b strings.Builder
	b.WriteString("Suggest 3 exercises suitable for a person managing diabetes risk. ")
	if profile.Age > 0 {
		fmt.Fprintf(&b, "Age: %d. ", profile.Age)
	}
	if profile.ActivityLevel != "" {
		fmt.Fprintf(&b, "Activity level: %s. ", profile.ActivityLevel)
	}
	if last != nil {
		fmt.Fprintf(&b, "Latest risk level: %s. BMI: %.1f. ", last.Result.Tier, last.Record.BMI)
	}
	b.WriteString("Respond with a JSON array where each exercise has: name, description, ")
	b.WriteString("duration (integer minutes), intensity (Low/Moderate/High), benefits.")
	return b.String()
}

// RecommendedExercise resolves a generated exercise id for the user, used
// when logging an exercise that is not in the static catalog.
func (s *Service) RecommendedExercise(userID string, id int) (catalog.Exercise, bool) {
	s.recMu.RLock()
	defer s.recMu.RUnlock()
	for _, e := range s.recommended[userID] {
		if e.ID == id {
			return e, true
		}
	}
	return catalog.Exercise{}, false
}
