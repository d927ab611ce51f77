// Package httpapi wires every service into the gin router and keeps the
// HTTP concerns (binding, status codes, response shapes) out of the
// domain packages.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glucoguide/glucoguide/internal/apperr"
	"github.com/glucoguide/glucoguide/internal/catalog"
	"github.com/glucoguide/glucoguide/internal/chat"
	"github.com/glucoguide/glucoguide/internal/geo"
	"github.com/glucoguide/glucoguide/internal/recommend"
	"github.com/glucoguide/glucoguide/internal/risk"
	"github.com/glucoguide/glucoguide/internal/store"
)

// defaultUserID keys state for requests that do not identify a user.
const defaultUserID = "default_user"

// Deps carries every collaborator the handlers need. Archive may be nil.
type Deps struct {
	Engine      *risk.Engine
	Geo         *geo.Service
	Recommend   *recommend.Service
	Chat        *chat.Service
	Catalog     *catalog.Store
	Profiles    *store.Profiles
	Assessments *store.Assessments
	MealLog     *store.MealLog
	ExerciseLog *store.ExerciseLog
	Archive     *store.Archive
}

type api struct {
	Deps
	now func() time.Time
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(deps Deps) *gin.Engine {
	return newRouter(deps, time.Now)
}

func newRouter(deps Deps, now func() time.Time) *gin.Engine {
	a := &api{Deps: deps, now: now}

	router := gin.New()
	router.Use(
		gin.LoggerWithFormatter(logLine),
		gin.Recovery(),
		requestID(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", a.healthz)
	router.GET("/readyz", a.readyz)

	router.POST("/predict", a.predict)
	router.GET("/doctors/search", a.searchDoctors)
	router.GET("/recipes/search", a.searchRecipes)
	router.GET("/exercises/recommend", a.recommendExercises)

	router.GET("/meals", a.listMeals)
	router.GET("/exercises", a.listExercises)

	router.GET("/user/profile", a.getProfile)
	router.POST("/user/profile", a.putProfile)
	router.GET("/user/meals", a.listLoggedMeals)
	router.POST("/user/meals", a.logMeal)
	router.DELETE("/user/meals/:id", a.removeLoggedMeal)
	router.GET("/user/exercises", a.listLoggedExercises)
	router.POST("/user/exercises", a.logExercise)
	router.GET("/user/summary", a.dailySummary)

	router.POST("/meal-plan/generate", a.generateMealPlan)
	router.GET("/meal-plan", a.getMealPlan)

	router.POST("/chatbot", a.chatbot)

	return router
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// requestID tags every request and response so access-log lines can be
// correlated with external call failures.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func logLine(p gin.LogFormatterParams) string {
	id, _ := p.Keys["requestID"].(string)
	return fmt.Sprintf("[GIN] %s | %3d | %13v | %15s | %s | %-7s %s\n",
		p.TimeStamp.Format("2006/01/02 15:04:05"),
		p.StatusCode, p.Latency, p.ClientIP, id, p.Method, p.Path)
}

// respondError maps any error onto its carried status and the stable
// {error, code} body shape.
func respondError(c *gin.Context, err error) {
	e := apperr.From(err)
	body := gin.H{"error": e.Message, "code": string(e.Code)}
	if len(e.Details) > 0 {
		body["details"] = e.Details
	}
	c.JSON(e.Status, body)
}

func (a *api) userID(c *gin.Context) string {
	if id := c.Query("userId"); id != "" {
		return id
	}
	return defaultUserID
}

// dateParam returns the validated date query param, defaulting to today.
func (a *api) dateParam(c *gin.Context) (string, error) {
	date := c.Query("date")
	if date == "" {
		return a.now().Format(store.DateLayout), nil
	}
	if _, err := time.Parse(store.DateLayout, date); err != nil {
		return "", apperr.NewValidation(fmt.Sprintf("date must be in %s format", store.DateLayout), "date")
	}
	return date, nil
}

func (a *api) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"modelVersion": a.Engine.ArtifactVersion(),
	})
}

func (a *api) readyz(c *gin.Context) {
	if a.Archive == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := a.Archive.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"db":     fmt.Sprintf("unhealthy: %v", err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
}
