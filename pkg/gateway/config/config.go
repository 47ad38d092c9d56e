package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultInstructions = "You are a friendly shopping assistant for an online fashion store. " +
	"Help customers find products, manage their cart, and place orders using the available tools. " +
	"Keep answers short and conversational; confirm before placing an order. " +
	"Never invent products or prices: always search the catalog first."

type Config struct {
	Addr string

	// Upstream realtime session.
	OpenAIAPIKey      string
	RealtimeModel     string
	RealtimeURL       string
	Voice             string
	Instructions      string
	KeepaliveInterval time.Duration
	MaxReconnects     int
	BackoffInitial    time.Duration
	BackoffCap        time.Duration

	// Catalog store and optional integrations.
	DatabaseURL    string
	GeminiAPIKey   string
	StripeAPIKey   string
	SendGridAPIKey string
	MailFrom       string

	// CORS (empty => disabled).
	CORSAllowedOrigins map[string]struct{}

	// Client websocket.
	WSPingInterval time.Duration
	WSWriteTimeout time.Duration

	// Operational defaults.
	ReadHeaderTimeout   time.Duration
	ReadTimeout         time.Duration
	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                envOr("VOICESTORE_ADDR", ":8000"),
		OpenAIAPIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		RealtimeModel:       envOr("VOICESTORE_REALTIME_MODEL", "gpt-4o-realtime-preview-2024-10-01"),
		RealtimeURL:         envOr("VOICESTORE_REALTIME_URL", "wss://api.openai.com/v1/realtime"),
		Voice:               envOr("VOICESTORE_VOICE", "alloy"),
		Instructions:        envOr("VOICESTORE_INSTRUCTIONS", defaultInstructions),
		KeepaliveInterval:   envDurationOr("VOICESTORE_KEEPALIVE_INTERVAL", 15*time.Second),
		MaxReconnects:       envIntOr("VOICESTORE_MAX_RECONNECTS", 3),
		BackoffInitial:      envDurationOr("VOICESTORE_BACKOFF_INITIAL", 1*time.Second),
		BackoffCap:          envDurationOr("VOICESTORE_BACKOFF_CAP", 10*time.Second),
		DatabaseURL:         envOr("VOICESTORE_DATABASE_URL", strings.TrimSpace(os.Getenv("DATABASE_URL"))),
		GeminiAPIKey:        strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		StripeAPIKey:        strings.TrimSpace(os.Getenv("STRIPE_API_KEY")),
		SendGridAPIKey:      strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		MailFrom:            envOr("VOICESTORE_MAIL_FROM", "orders@example.com"),
		CORSAllowedOrigins:  make(map[string]struct{}),
		WSPingInterval:      envDurationOr("VOICESTORE_WS_PING_INTERVAL", 20*time.Second),
		WSWriteTimeout:      envDurationOr("VOICESTORE_WS_WRITE_TIMEOUT", 5*time.Second),
		ReadHeaderTimeout:   envDurationOr("VOICESTORE_READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:         envDurationOr("VOICESTORE_READ_TIMEOUT", 30*time.Second),
		ShutdownGracePeriod: envDurationOr("VOICESTORE_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}

	for _, origin := range splitCSV(os.Getenv("VOICESTORE_CORS_ORIGINS")) {
		cfg.CORSAllowedOrigins[origin] = struct{}{}
	}

	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY must be set")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return Config{}, fmt.Errorf("VOICESTORE_DATABASE_URL (or DATABASE_URL) must be set")
	}
	if cfg.KeepaliveInterval <= 0 {
		return Config{}, fmt.Errorf("VOICESTORE_KEEPALIVE_INTERVAL must be > 0")
	}
	if cfg.MaxReconnects <= 0 {
		return Config{}, fmt.Errorf("VOICESTORE_MAX_RECONNECTS must be > 0")
	}
	if cfg.BackoffInitial <= 0 || cfg.BackoffCap < cfg.BackoffInitial {
		return Config{}, fmt.Errorf("VOICESTORE_BACKOFF_INITIAL must be > 0 and <= VOICESTORE_BACKOFF_CAP")
	}
	if cfg.WSPingInterval <= 0 {
		return Config{}, fmt.Errorf("VOICESTORE_WS_PING_INTERVAL must be > 0")
	}
	if cfg.WSWriteTimeout <= 0 {
		return Config{}, fmt.Errorf("VOICESTORE_WS_WRITE_TIMEOUT must be > 0")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("VOICESTORE_READ_HEADER_TIMEOUT must be > 0")
	}
	if cfg.ReadTimeout <= 0 {
		return Config{}, fmt.Errorf("VOICESTORE_READ_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("VOICESTORE_SHUTDOWN_GRACE_PERIOD must be > 0")
	}
	if cfg.SendGridAPIKey != "" && strings.TrimSpace(cfg.MailFrom) == "" {
		return Config{}, fmt.Errorf("VOICESTORE_MAIL_FROM must be set when SENDGRID_API_KEY is set")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envIntOr(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
