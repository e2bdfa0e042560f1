package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestJSONOutput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Fatalf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, `"key":"value"`) {
		t.Fatalf("expected key=value in JSON output, got: %s", out)
	}
	if !strings.Contains(out, `"level":"INFO"`) {
		t.Fatalf("expected INFO level in output, got: %s", out)
	}
}

func TestJSONLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("suppressed")
	log.Debug("suppressed too")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}

	log.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected warn message, got: %s", buf.String())
	}
}

func TestBuildFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"probe"`},
		{"pretty", "probe"},
		{"text", "msg=probe"},
		{"", "msg=probe"},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		log := Build(tc.format, "info", &buf)
		log.Info("probe")
		if !strings.Contains(buf.String(), tc.want) {
			t.Errorf("Build(%q): expected %q in output, got: %s", tc.format, tc.want, buf.String())
		}
	}
}

func TestWith(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.With("component", "api").Info("child message")

	out := buf.String()
	if !strings.Contains(out, `"component":"api"`) {
		t.Fatalf("expected component attr, got: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)

	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info("roundtrip")
	if !strings.Contains(buf.String(), "roundtrip") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
}

func TestFromContextDefault(t *testing.T) {
	t.Parallel()
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext with no logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestConsoleHandlerEnabled(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewConsoleHandler(&buf, slog.LevelWarn)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestConsoleHandlerAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewConsoleHandler(&buf, nil)

	log := slog.New(h.WithAttrs([]slog.Attr{slog.String("service", "lens")}))
	log.Info("handled")

	if out := buf.String(); !strings.Contains(out, "service=lens") {
		t.Fatalf("expected handler attr, got: %s", out)
	}
}

func TestConsoleHandlerGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewConsoleHandler(&buf, nil)

	log := slog.New(h.WithGroup("req").WithGroup("peer"))
	log.Info("handled", "id", "abc")

	if out := buf.String(); !strings.Contains(out, "req.peer.id=abc") {
		t.Fatalf("expected group-prefixed attr, got: %s", out)
	}
}

func TestConsoleHandlerQuoting(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := slog.New(NewConsoleHandler(&buf, nil))
	log.Info("test", "msg", "hello world", "key", "simple")

	out := buf.String()
	if !strings.Contains(out, `msg="hello world"`) {
		t.Fatalf("expected quoted string with spaces, got: %s", out)
	}
	if !strings.Contains(out, "key=simple") || strings.Contains(out, `key="simple"`) {
		t.Fatalf("simple strings should be unquoted, got: %s", out)
	}
}
