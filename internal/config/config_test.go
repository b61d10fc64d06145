package config

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LISTEN_ADDR", "BASE_URL", "RESTAURANT_TZ", "BOOKING_BACKEND", "BACKEND_URL",
		"BACKEND_TIMEOUT", "BACKEND_RETRIES", "DATABASE_URL", "REDIS_ADDR", "CACHE_TTL",
		"AMQP_URL", "BOOKING_QUEUE", "SESSION_IDLE", "COOKIE_HASH_KEY", "COOKIE_BLOCK_KEY", "COOKIE_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("COOKIE_SECRET", "correct horse battery staple")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.Backend != BackendMock || cfg.BookingQueue != "booking.submitted" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Location.String() != "America/Chicago" {
		t.Fatalf("expected America/Chicago, got %s", cfg.Location)
	}
	if cfg.BackendTimeout != 5*time.Second || cfg.CacheTTL != 30*time.Second || cfg.SessionIdle != 2*time.Hour {
		t.Fatalf("unexpected durations %+v", cfg)
	}
	if cfg.BackendRetries != 2 {
		t.Fatalf("expected 2 retries, got %d", cfg.BackendRetries)
	}
	if len(cfg.CookieHashKey) != 32 || len(cfg.CookieBlockKey) != 32 {
		t.Fatalf("expected derived 32-byte keys")
	}
}

func TestFromEnv_ExplicitKeys(t *testing.T) {
	clearEnv(t)
	hash := bytes.Repeat([]byte{1}, 32)
	block := bytes.Repeat([]byte{2}, 16)
	t.Setenv("COOKIE_HASH_KEY", base64.StdEncoding.EncodeToString(hash)+"\n")
	t.Setenv("COOKIE_BLOCK_KEY", base64.StdEncoding.EncodeToString(block))

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !bytes.Equal(cfg.CookieHashKey, hash) || !bytes.Equal(cfg.CookieBlockKey, block) {
		t.Fatalf("keys not decoded as given")
	}
}

func TestFromEnv_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"no keys", map[string]string{}, "COOKIE_SECRET"},
		{"bad backend", map[string]string{"COOKIE_SECRET": "s", "BOOKING_BACKEND": "carrier-pigeon"}, "BOOKING_BACKEND"},
		{"remote without url", map[string]string{"COOKIE_SECRET": "s", "BOOKING_BACKEND": "remote"}, "BACKEND_URL"},
		{"bad tz", map[string]string{"COOKIE_SECRET": "s", "RESTAURANT_TZ": "Mars/Olympus"}, "RESTAURANT_TZ"},
		{"bad ttl", map[string]string{"COOKIE_SECRET": "s", "CACHE_TTL": "soon"}, "CACHE_TTL"},
		{"bad retries", map[string]string{"COOKIE_SECRET": "s", "BACKEND_RETRIES": "-1"}, "BACKEND_RETRIES"},
		{"short block key", map[string]string{
			"COOKIE_HASH_KEY":  base64.StdEncoding.EncodeToString(make([]byte, 32)),
			"COOKIE_BLOCK_KEY": base64.StdEncoding.EncodeToString(make([]byte, 10)),
		}, "COOKIE_BLOCK_KEY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestDeriveCookieKeys_Deterministic(t *testing.T) {
	h1, b1, err := DeriveCookieKeys([]byte("secret"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	h2, b2, _ := DeriveCookieKeys([]byte("secret"))
	if !bytes.Equal(h1, h2) || !bytes.Equal(b1, b2) {
		t.Fatalf("expected same keys for same secret")
	}
	if bytes.Equal(h1, b1) {
		t.Fatalf("expected hash and block keys to differ")
	}
}

func TestNewRedisClient_EmptyAddr(t *testing.T) {
	if NewRedisClient(context.Background(), "") != nil {
		t.Fatalf("expected nil client for empty addr")
	}
}
