package config

import (
	"testing"
	"time"

	"pontodigital/cmd/internal/timeline"
)

const secret = "0123456789abcdef0123456789abcdef"

func envOf(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"TOKEN_SECRET": secret}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Port != defaultPort || cfg.DBDriver != "sqlite" || cfg.AWSRegion != defaultRegion {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != defaultSession || cfg.MachineID != 1 {
		t.Fatalf("unexpected session defaults: %v %d", cfg.SessionTTL, cfg.MachineID)
	}
	if cfg.Location.String() != defaultTZ || cfg.TimelineStrategy != timeline.Ordinal {
		t.Fatalf("unexpected clock defaults: %v %v", cfg.Location, cfg.TimelineStrategy)
	}
	if cfg.Production() || cfg.CognitoEnabled() {
		t.Fatal("defaults should be development without cognito")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"TOKEN_SECRET":         secret,
		"GO_ENV":               EnvProduction,
		"SESSION_TTL":          "30m",
		"TIMELINE_STRATEGY":    "type",
		"TZ_NAME":              "UTC",
		"COGNITO_CLIENT_ID":    "client",
		"COGNITO_USER_POOL_ID": "pool",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if !cfg.Production() || !cfg.CognitoEnabled() {
		t.Fatal("expected production with cognito")
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.TimelineStrategy != timeline.TypeMatched {
		t.Fatalf("overrides not applied: %v %v", cfg.SessionTTL, cfg.TimelineStrategy)
	}
}

func TestFromEnvRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"short secret": {"TOKEN_SECRET": "short"},
		"bad ttl":      {"TOKEN_SECRET": secret, "SESSION_TTL": "forever"},
		"bad strategy": {"TOKEN_SECRET": secret, "TIMELINE_STRATEGY": "random"},
		"bad zone":     {"TOKEN_SECRET": secret, "TZ_NAME": "Mars/Olympus"},
		"bad bool":     {"TOKEN_SECRET": secret, "DB_LOG_SQL": "maybe"},
	}

	for name, env := range cases {
		if _, err := FromEnv(envOf(env)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
