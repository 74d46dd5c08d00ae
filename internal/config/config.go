package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the environment-driven service configuration.
type Config struct {
	Addr                string
	DatabaseURI         string
	StripeSecretKey     string
	StripeWebhookSecret string
	PublicBaseURL       string
	JWTSecret           string
	AdminEmail          string
	AdminPassword       string
}

// Load reads configuration from the environment, with an optional .env
// file for local development.
func Load() (*Config, error) {
	// a missing .env is fine; real deployments set the environment
	_ = godotenv.Load()

	cfg := &Config{
		Addr:                getenv("ADDR", ":8080"),
		DatabaseURI:         getenv("DATABASE_URI", "friterie.db"),
		StripeSecretKey:     sanitize(os.Getenv("STRIPE_SECRET_KEY")),
		StripeWebhookSecret: sanitize(os.Getenv("STRIPE_WEBHOOK_SECRET")),
		PublicBaseURL:       strings.TrimRight(sanitize(os.Getenv("PUBLIC_BASE_URL")), "/"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AdminEmail:          os.Getenv("ADMIN_EMAIL"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
	}

	var missing []string
	for _, kv := range []struct{ key, val string }{
		{"STRIPE_SECRET_KEY", cfg.StripeSecretKey},
		{"STRIPE_WEBHOOK_SECRET", cfg.StripeWebhookSecret},
		{"PUBLIC_BASE_URL", cfg.PublicBaseURL},
		{"JWT_SECRET", cfg.JWTSecret},
		{"ADMIN_EMAIL", cfg.AdminEmail},
		{"ADMIN_PASSWORD", cfg.AdminPassword},
	} {
		if kv.val == "" {
			missing = append(missing, kv.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// sanitize strips whitespace and non-printable characters that sneak in
// when secrets are pasted into env files.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		if r >= 0x20 && r <= 0x7e {
			b.WriteRune(r)
		}
	}
	return b.String()
}
