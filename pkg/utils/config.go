package utils

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file when one exists next to the binary. Missing
// files are fine; real environment variables always win.
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		log.Println("[config] loaded .env")
	}
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("FILMHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("FILMHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "filmhub"
	}

	hours := 24
	if ttl := os.Getenv("FILMHUB_JWT_TTL_HOURS"); ttl != "" {
		if n, err := strconv.Atoi(ttl); err == nil && n > 0 {
			hours = n
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: time.Duration(hours) * time.Hour,
	}
}

// ParserConfig configures the batch parser binaries.
type ParserConfig struct {
	QueryLimit int    // max search_log entries per daily run
	CookiePath string // Sweet.tv session cookies (JSON array)
	SyncAddr   string // api-server sync feed TCP address, empty disables
}

func LoadParserConfig() ParserConfig {
	limit := 50
	if s := os.Getenv("FILMHUB_PARSER_QUERY_LIMIT"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	cookies := os.Getenv("FILMHUB_SWEETTV_COOKIES")
	if cookies == "" {
		cookies = "cookies.json"
	}

	return ParserConfig{
		QueryLimit: limit,
		CookiePath: cookies,
		SyncAddr:   os.Getenv("FILMHUB_SYNC_ADDR"),
	}
}
