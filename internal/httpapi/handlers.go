package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/glucoguide/glucoguide/internal/apperr"
	"github.com/glucoguide/glucoguide/internal/recommend"
	"github.com/glucoguide/glucoguide/internal/risk"
	"github.com/glucoguide/glucoguide/internal/store"
)

const defaultSearchRadius = 5000

func (a *api) predict(c *gin.Context) {
	userID := a.userID(c)

	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		respondError(c, apperr.NewValidation("request body must be a JSON object"))
		return
	}

	rec, err := risk.ParseRecord(payload)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := a.Engine.Assess(rec)
	if err != nil {
		respondError(c, err)
		return
	}
	a.Assessments.Put(userID, rec, result)

	if a.Archive != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := a.Archive.SaveAssessment(ctx, userID, rec, result); err != nil {
			log.Printf("assessment archive write failed: %v", err)
		}
		cancel()
	}

	c.JSON(http.StatusOK, result)
}

func (a *api) searchDoctors(c *gin.Context) {
	radius := defaultSearchRadius
	if raw := c.Query("radius"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, apperr.NewValidation("radius must be a positive integer", "radius"))
			return
		}
		radius = parsed
	}

	doctors, err := a.Geo.Search(c.Request.Context(), c.Query("location"), radius)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

// profileFor loads the user's profile, falling back to an empty one so the
// recommendation endpoints work before a profile is saved.
func (a *api) profileFor(userID string) store.Profile {
	profile, ok := a.Profiles.Get(userID)
	if !ok {
		return store.Profile{}
	}
	return profile
}

func (a *api) searchRecipes(c *gin.Context) {
	userID := a.userID(c)
	profile := a.profileFor(userID)
	if diet := c.Query("dietType"); diet != "" {
		profile.DietType = diet
	}

	meals, err := a.Recommend.RecommendMeals(c.Request.Context(), profile, c.Query("query"), recommend.DefaultTargetCount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": meals})
}

func (a *api) recommendExercises(c *gin.Context) {
	userID := a.userID(c)
	profile := a.profileFor(userID)

	var last *store.Assessment
	if entry, ok := a.Assessments.Last(userID); ok {
		last = &entry
	}

	exercises := a.Recommend.RecommendExercises(c.Request.Context(), userID, profile, last)
	c.JSON(http.StatusOK, gin.H{"exercises": exercises})
}

func (a *api) listMeals(c *gin.Context) {
	diet := c.Query("diet")
	if diet == "" {
		diet = "vegetarian"
	}
	meals, ok := a.Catalog.MealsForDiet(diet)
	if !ok {
		respondError(c, apperr.NewValidation(fmt.Sprintf("unknown diet type %q", diet), "diet"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (a *api) listExercises(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"exercises": a.Catalog.Exercises()})
}

func (a *api) getProfile(c *gin.Context) {
	profile, ok := a.Profiles.Get(a.userID(c))
	if !ok {
		respondError(c, apperr.NewNotFound("profile not found"))
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (a *api) putProfile(c *gin.Context) {
	var profile store.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respondError(c, apperr.NewValidation("request body must be a JSON profile"))
		return
	}
	if profile.DietType == "" {
		respondError(c, apperr.NewValidation("dietType is required", "dietType"))
		return
	}
	stored := a.Profiles.Put(a.userID(c), profile)
	c.JSON(http.StatusOK, stored)
}

type logMealRequest struct {
	MealID int    `json:"mealId"`
	Date   string `json:"date"`
}

func (a *api) logMeal(c *gin.Context) {
	var req logMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.NewValidation("request body must contain mealId"))
		return
	}
	date, err := a.resolveDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	meal, ok := a.Catalog.MealByID(req.MealID)
	if !ok {
		respondError(c, apperr.NewNotFound(fmt.Sprintf("meal %d not found", req.MealID)))
		return
	}

	userID := a.userID(c)
	added := a.MealLog.Add(userID, date, meal)
	c.JSON(http.StatusOK, gin.H{
		"added": added,
		"date":  date,
		"meals": a.MealLog.List(userID, date),
	})
}

func (a *api) listLoggedMeals(c *gin.Context) {
	date, err := a.dateParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"meals": a.MealLog.List(a.userID(c), date),
	})
}

func (a *api) removeLoggedMeal(c *gin.Context) {
	mealID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperr.NewValidation("meal id must be an integer", "id"))
		return
	}
	date, err := a.dateParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	userID := a.userID(c)
	if !a.MealLog.Remove(userID, date, mealID) {
		respondError(c, apperr.NewNotFound(fmt.Sprintf("meal %d not logged on %s", mealID, date)))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"meals": a.MealLog.List(userID, date),
	})
}

type logExerciseRequest struct {
	ExerciseID int    `json:"exerciseId"`
	Duration   int    `json:"duration"`
	Date       string `json:"date"`
}

func (a *api) logExercise(c *gin.Context) {
	var req logExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.NewValidation("request body must contain exerciseId"))
		return
	}
	date, err := a.resolveDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	userID := a.userID(c)
	exercise, ok := a.Catalog.ExerciseByID(req.ExerciseID)
	if !ok {
		// Generated recommendations live outside the static catalog.
		exercise, ok = a.Recommend.RecommendedExercise(userID, req.ExerciseID)
	}
	if !ok {
		respondError(c, apperr.NewNotFound(fmt.Sprintf("exercise %d not found", req.ExerciseID)))
		return
	}

	a.ExerciseLog.Add(userID, date, store.ExerciseEntry{Exercise: exercise, UserDuration: req.Duration})
	c.JSON(http.StatusOK, gin.H{
		"date":      date,
		"exercises": a.ExerciseLog.List(userID, date),
	})
}

func (a *api) listLoggedExercises(c *gin.Context) {
	date, err := a.dateParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":      date,
		"exercises": a.ExerciseLog.List(a.userID(c), date),
	})
}

func (a *api) dailySummary(c *gin.Context) {
	date, err := a.dateParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	userID := a.userID(c)
	summary := store.Summarize(date, a.MealLog.List(userID, date), a.ExerciseLog.List(userID, date))
	c.JSON(http.StatusOK, summary)
}

type generatePlanRequest struct {
	Days      int    `json:"days"`
	StartDate string `json:"startDate"`
}

func (a *api) generateMealPlan(c *gin.Context) {
	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.NewValidation("request body must be a JSON object"))
		return
	}

	start := a.now()
	if req.StartDate != "" {
		parsed, err := time.Parse(store.DateLayout, req.StartDate)
		if err != nil {
			respondError(c, apperr.NewValidation(fmt.Sprintf("startDate must be in %s format", store.DateLayout), "startDate"))
			return
		}
		start = parsed
	}

	userID := a.userID(c)
	plan, err := a.Recommend.GeneratePlan(userID, a.profileFor(userID), req.Days, start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

func (a *api) getMealPlan(c *gin.Context) {
	plan, ok := a.Recommend.Plan(a.userID(c))
	if !ok {
		respondError(c, apperr.NewNotFound("no meal plan generated yet"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (a *api) chatbot(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.NewValidation("request body must contain message"))
		return
	}

	userID := a.userID(c)
	var last *store.Assessment
	if entry, ok := a.Assessments.Last(userID); ok {
		last = &entry
	}

	reply, err := a.Chat.Reply(c.Request.Context(), a.profileFor(userID), last, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

// resolveDate validates a body-supplied date, defaulting to today.
func (a *api) resolveDate(date string) (string, error) {
	if date == "" {
		return a.now().Format(store.DateLayout), nil
	}
	if _, err := time.Parse(store.DateLayout, date); err != nil {
		return "", apperr.NewValidation(fmt.Sprintf("date must be in %s format", store.DateLayout), "date")
	}
	return date, nil
}
