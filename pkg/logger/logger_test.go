package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerWritesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-1")
	ctx = logg.WithUserID(ctx, "user-1")
	ctx = logg.WithActorRole(ctx, "admin")
	logg.Info(ctx, "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not json: %v", err)
	}
	if entry["request_id"] != "req-1" {
		t.Fatalf("expected request_id, got %v", entry["request_id"])
	}
	if entry["user_id"] != "user-1" {
		t.Fatalf("expected user_id, got %v", entry["user_id"])
	}
	if entry["actor_role"] != "admin" {
		t.Fatalf("expected actor_role, got %v", entry["actor_role"])
	}
	if entry["service"] != "test" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
}

func TestLoggerLevelFiltersInfo(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.WarnLevel, Output: &buf})

	logg.Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}

	logg.Warn(context.Background(), "kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected warn to be written, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatal("empty level should default to info")
	}
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatal("debug level should parse")
	}
	if ParseLevel("bogus") != zerolog.InfoLevel {
		t.Fatal("unknown level should fall back to info")
	}
}
