// Package config loads runtime configuration from the environment.
//
// Precedence: real environment variables win; a .env file (if present) fills
// the gaps; anything still unset falls back to the defaults below. The .env
// file is a development convenience — production deployments set the
// variables directly.
package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort        = 8080
	defaultDBPath      = "data/survivaldisc.db"
	defaultTokenTTL    = 30 * 24 * time.Hour
	defaultGeminiModel = "gemini-3-flash-preview"
)

// Config holds every knob the server reads at startup.
type Config struct {
	Port     int    // PORT — HTTP listen port
	DBPath   string // DB_PATH — SQLite database file (parent dir created if missing)
	LogLevel string // LOG_LEVEL — debug|info|warn|error

	// JWTSecret signs the auth cookie. Must be at least 16 characters;
	// generate with: openssl rand -hex 32. The server refuses to start
	// without it.
	JWTSecret string        // JWT_SECRET
	TokenTTL  time.Duration // TOKEN_TTL, auth cookie lifetime

	// AuthDelay artificially delays login and registration to mimic the
	// "client-side encryption" progress the product UI shows. Purely a
	// demo hook; 0 disables it and nothing depends on the timing.
	AuthDelay time.Duration // AUTH_DELAY

	// CascadeDelete controls folder deletion: true removes all descendants
	// transitively, false preserves the legacy behavior of orphaning them.
	CascadeDelete bool // CASCADE_DELETE

	// Annotation provider. With no API key the server runs with fixed
	// fallback strings instead of calling out.
	GeminiAPIKey string // GEMINI_API_KEY
	GeminiModel  string // GEMINI_MODEL
}

// Load reads the environment (plus an optional .env file) into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()
	viper.SetDefault("port", defaultPort)
	viper.SetDefault("db_path", defaultDBPath)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("token_ttl", defaultTokenTTL)
	viper.SetDefault("auth_delay", time.Duration(0))
	viper.SetDefault("cascade_delete", true)
	viper.SetDefault("gemini_model", defaultGeminiModel)

	return &Config{
		Port:          viper.GetInt("port"),
		DBPath:        viper.GetString("db_path"),
		LogLevel:      viper.GetString("log_level"),
		JWTSecret:     viper.GetString("jwt_secret"),
		TokenTTL:      viper.GetDuration("token_ttl"),
		AuthDelay:     viper.GetDuration("auth_delay"),
		CascadeDelete: viper.GetBool("cascade_delete"),
		GeminiAPIKey:  viper.GetString("gemini_api_key"),
		GeminiModel:   viper.GetString("gemini_model"),
	}
}
