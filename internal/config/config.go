package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	SessionSecret string

	CookieName          string
	CookiePath          string
	CookieDomain        string
	CookieMaxAgeSeconds int
	CookieSecure        bool
	CookieSameSite      http.SameSite
}

const (
	defaultAppPort      = "8080"
	defaultCookieName   = "uid"
	defaultCookiePath   = "/"
	defaultCookieMaxAge = 7 * 24 * 60 * 60 // 7 days
)

// Load reads the configuration from the environment and validates it.
// Security-relevant settings (session secret, same-site policy) must be
// valid before the process serves any traffic.
func Load() (Config, error) {

	cfg := Config{

		AppPort: envOr("APP_PORT", defaultAppPort),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SessionSecret: os.Getenv("SESSION_SECRET"),

		CookieName:   envOr("COOKIE_NAME", defaultCookieName),
		CookiePath:   envOr("COOKIE_PATH", defaultCookiePath),
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),
	}

	if cfg.DatabaseDSN == "" {
		return Config{}, fmt.Errorf("config: DATABASE_DSN is required")
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("config: SESSION_SECRET is required")
	}

	maxAge := defaultCookieMaxAge
	if raw := os.Getenv("COOKIE_MAX_AGE_SECONDS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: invalid COOKIE_MAX_AGE_SECONDS %q", raw)
		}
		maxAge = n
	}
	cfg.CookieMaxAgeSeconds = maxAge

	if raw := os.Getenv("COOKIE_SECURE"); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid COOKIE_SECURE %q", raw)
		}
		cfg.CookieSecure = secure
	}

	sameSite, err := parseSameSite(envOr("COOKIE_SAMESITE", "lax"))
	if err != nil {
		return Config{}, err
	}
	cfg.CookieSameSite = sameSite

	// Browsers drop SameSite=None cookies that are not Secure, which
	// would silently break every session.
	if cfg.CookieSameSite == http.SameSiteNoneMode && !cfg.CookieSecure {
		return Config{}, fmt.Errorf("config: COOKIE_SAMESITE=none requires COOKIE_SECURE=true")
	}

	return cfg, nil
}

func parseSameSite(raw string) (http.SameSite, error) {
	switch raw {
	case "lax", "Lax":
		return http.SameSiteLaxMode, nil
	case "strict", "Strict":
		return http.SameSiteStrictMode, nil
	case "none", "None":
		return http.SameSiteNoneMode, nil
	}
	return 0, fmt.Errorf("config: invalid COOKIE_SAMESITE %q (want lax, strict or none)", raw)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
