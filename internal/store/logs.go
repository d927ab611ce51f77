package store

import (
	"sync"

	"github.com/glucoguide/glucoguide/internal/catalog"
)

// MealLog records which catalog meals each user logged per day.
type MealLog struct {
	mu sync.RWMutex
	m  map[string]map[string][]catalog.Meal // userID -> date -> meals
}

// NewMealLog builds an empty meal log.
func NewMealLog() *MealLog {
	return &MealLog{m: make(map[string]map[string][]catalog.Meal)}
}

// Add logs a meal for the user on the given date. A meal id already logged
// that day is not added again; the bool reports whether the meal was added.
func (l *MealLog) Add(userID, date string, meal catalog.Meal) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	days, ok := l.m[userID]
	if !ok {
		days = make(map[string][]catalog.Meal)
		l.m[userID] = days
	}
	for _, m := range days[date] {
		if m.ID == meal.ID {
			return false
		}
	}
	days[date] = append(days[date], meal)
	return true
}

// List returns a copy of the meals logged on the given date.
func (l *MealLog) List(userID, date string) []catalog.Meal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	meals := l.m[userID][date]
	out := make([]catalog.Meal, len(meals))
	copy(out, meals)
	return out
}

// Remove deletes a logged meal by id. It reports whether anything was
// removed.
func (l *MealLog) Remove(userID, date string, mealID int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	meals := l.m[userID][date]
	for i, m := range meals {
		if m.ID == mealID {
			l.m[userID][date] = append(meals[:i:i], meals[i+1:]...)
			return true
		}
	}
	return false
}

// ExerciseEntry is one logged exercise: the catalog entry plus the user's
// actual duration for that session.
type ExerciseEntry struct {
	catalog.Exercise
	UserDuration int    `json:"userDuration"`
	Date         string `json:"date"`
}

// ExerciseLog records exercise sessions per user per day.
type ExerciseLog struct {
	mu sync.RWMutex
	m  map[string]map[string][]ExerciseEntry
}

// NewExerciseLog builds an empty exercise log.
func NewExerciseLog() *ExerciseLog {
	return &ExerciseLog{m: make(map[string]map[string][]ExerciseEntry)}
}

// Add logs an exercise session. Repeated sessions of the same exercise on
// one day are all kept.
func (l *ExerciseLog) Add(userID, date string, entry ExerciseEntry) {
	entry.Date = date
	l.mu.Lock()
	defer l.mu.Unlock()
	days, ok := l.m[userID]
	if !ok {
		days = make(map[string][]ExerciseEntry)
		l.m[userID] = days
	}
	days[date] = append(days[date], entry)
}

// List returns a copy of the sessions logged on the given date.
func (l *ExerciseLog) List(userID, date string) []ExerciseEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := l.m[userID][date]
	out := make([]ExerciseEntry, len(entries))
	copy(out, entries)
	return out
}
