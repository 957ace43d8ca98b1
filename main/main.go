package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/Jonnymurillo288/TourCast/internal/auth"
	"github.com/Jonnymurillo288/TourCast/internal/events"
	"github.com/Jonnymurillo288/TourCast/internal/limiter"
	"github.com/Jonnymurillo288/TourCast/internal/pipeline"
	"github.com/Jonnymurillo288/TourCast/internal/runs"
	"github.com/Jonnymurillo288/TourCast/internal/secret"
	"github.com/Jonnymurillo288/TourCast/internal/store"
	"github.com/Jonnymurillo288/TourCast/musicbrainz"
	"github.com/Jonnymurillo288/TourCast/setlistfm"
	"github.com/Jonnymurillo288/TourCast/spotify"
)

func main() {
	if err := secret.LoadSecrets(""); err != nil {
		log.Fatal(err)
	}

	// One limiter per upstream, constructed once and shared by every run.
	archiveLimiter := limiter.New(limiter.Config{
		Concurrency: 1,
		MinInterval: 600 * time.Millisecond,
		MaxRetries:  3,
		RetryBase:   time.Second,
	})
	catalogLimiter := limiter.New(limiter.Config{
		Concurrency: 5,
		MinInterval: 200 * time.Millisecond,
		MaxRetries:  3,
		RetryBase:   time.Second,
	})

	var mbidStore store.MBIDStore
	if secret.Config.DatabaseURL != "" {
		pg, err := store.Open(secret.Config.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		if err := pg.Migrate(context.Background()); err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		mbidStore = pg
		log.Println("Using postgres MBID store")
	} else {
		mbidStore = store.NewMemoryStore()
		log.Println("No DATABASE_URL set, using in-memory MBID store")
	}

	hub := events.NewHub()
	registry := runs.NewRegistry()

	runner := &pipeline.Runner{
		Archive:  setlistfm.NewClient(archiveLimiter, secret.Config.SetlistAPIKey),
		Catalog:  spotify.NewClient(catalogLimiter, auth.SpotifyTokenSource(context.Background())),
		Identity: musicbrainz.NewClient(),
		Store:    mbidStore,
		Events:   hub,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/events", eventsHandler(hub))
	mux.HandleFunc("/api/predict", predictHandler(hub, registry, runner))

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	port := secret.Config.Port
	log.Println("Listening on :" + port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}
