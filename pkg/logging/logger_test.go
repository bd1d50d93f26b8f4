package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)
	logger.Info().Str("fqdn", "printer.home.lan").Msg("Added record")

	out := buf.String()
	if !strings.Contains(out, `"fqdn":"printer.home.lan"`) {
		t.Errorf("expected structured field in output, got %q", out)
	}
	if !strings.Contains(out, `"message":"Added record"`) {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != Default() {
		t.Error("FromContext without a logger should return the default")
	}
	if FromContext(nil) != Default() { //nolint:staticcheck // nil context is part of the contract
		t.Error("FromContext(nil) should return the default")
	}
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)
	ctx := WithLogger(context.Background(), &logger)

	Ctx(ctx).Info().Msg("via context")
	if !strings.Contains(buf.String(), "via context") {
		t.Errorf("context logger not used, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)
	ctx := WithLogger(context.Background(), &logger)
	ctx = WithComponent(ctx, "pihole")

	Ctx(ctx).Info().Msg("hello")
	if !strings.Contains(buf.String(), `"component":"pihole"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}
