package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewCarriesServiceAndEnv(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Service: "storefront", Env: "test", Level: "info", Writer: &buf})
	log.Info("hello")

	out := buf.String()
	if !strings.Contains(out, `"service":"storefront"`) || !strings.Contains(out, `"env":"test"`) {
		t.Fatalf("missing base attrs: %s", out)
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Service: "storefront", Env: "test", Format: "text", Writer: &buf})
	log.Debug("dropped")
	log.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("debug record should be filtered at info level: %s", out)
	}
	if !strings.Contains(out, "msg=kept") {
		t.Fatalf("expected text handler output, got %s", out)
	}
}
