package secret

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	SpotifyClientID     string `json:"spotify_client_id"`
	SpotifyClientSecret string `json:"spotify_client_secret"`
	SetlistAPIKey       string `json:"setlist_api_key"`
	DatabaseURL         string `json:"database_url"`
	Port                string `json:"port"`
}

var Config AppConfig

// LoadSecrets always loads from:
// 1. Environment variables (optionally seeded from .env, Render safe)
// 2. tourcast.json located in the project root
func LoadSecrets(_ string) error {

	// ----- 0. Seed env from .env when present -----
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// ----- 1. Load from environment -----
	id := os.Getenv("SPOTIFY_CLIENT_ID")
	spotifySecret := os.Getenv("SPOTIFY_CLIENT_SECRET")
	setlistKey := os.Getenv("SETLISTFM_API_KEY")

	if id != "" && spotifySecret != "" && setlistKey != "" {
		Config = AppConfig{
			SpotifyClientID:     id,
			SpotifyClientSecret: spotifySecret,
			SetlistAPIKey:       setlistKey,
			DatabaseURL:         os.Getenv("DATABASE_URL"),
			Port:                os.Getenv("PORT"),
		}
		applyDefaults()
		return nil
	}

	// ----- 2. Try local tourcast.json -----
	b, err := os.ReadFile("tourcast.json")
	if err == nil {
		err = json.Unmarshal(b, &Config)
		if err != nil {
			return fmt.Errorf("invalid tourcast.json: %w", err)
		}
		applyDefaults()
		return nil
	}

	return fmt.Errorf("missing Spotify/setlist.fm configuration ENV vars or tourcast.json")
}

func applyDefaults() {
	if Config.Port == "" {
		Config.Port = "8080"
	}
}
