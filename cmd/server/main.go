package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/glucoguide/glucoguide/internal/catalog"
	"github.com/glucoguide/glucoguide/internal/chat"
	"github.com/glucoguide/glucoguide/internal/config"
	"github.com/glucoguide/glucoguide/internal/geo"
	"github.com/glucoguide/glucoguide/internal/httpapi"
	"github.com/glucoguide/glucoguide/internal/platform/gemini"
	"github.com/glucoguide/glucoguide/internal/platform/gmaps"
	"github.com/glucoguide/glucoguide/internal/recommend"
	"github.com/glucoguide/glucoguide/internal/risk"
	"github.com/glucoguide/glucoguide/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	artifact, err := risk.LoadArtifact()
	if err != nil {
		log.Fatalf("model artifact: %v", err)
	}
	log.Printf("risk model artifact %s loaded", artifact.Version)

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	ctx := context.Background()
	var archive *store.Archive
	if cfg.EnableDB {
		archive, err = store.OpenArchive(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer archive.Close()
	}

	geminiClient := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiTimeout)
	mapsClient := gmaps.NewClient(cfg.MapsAPIKey, cfg.MapsTimeout)

	geoService := geo.NewService(mapsClient)

	deps := httpapi.Deps{
		Engine:      risk.NewEngine(artifact),
		Geo:         geoService,
		Recommend:   recommend.NewService(cat, geminiClient),
		Chat:        chat.NewService(geminiClient),
		Catalog:     cat,
		Profiles:    store.NewProfiles(),
		Assessments: store.NewAssessments(),
		MealLog:     store.NewMealLog(),
		ExerciseLog: store.NewExerciseLog(),
		Archive:     archive,
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	go sweepGeoCache(geoService)

	log.Printf("server listening on :%s", cfg.Port)
	waitForShutdown(server)
}

// sweepGeoCache evicts expired doctor-search entries once an hour so a
// long-running process does not accumulate dead cache entries.
func sweepGeoCache(svc *geo.Service) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		if n := svc.SweepCache(); n > 0 {
			log.Printf("geo cache: swept %d expired entries", n)
		}
	}
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
