package debug

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]bool
	}{
		{"empty", "", map[string]bool{}},
		{"single", "provider", map[string]bool{"provider": true}},
		{"multiple", "provider,streaming", map[string]bool{"provider": true, "streaming": true}},
		{"all", "all", map[string]bool{"all": true}},
		{"with spaces", " provider , demo ", map[string]bool{"provider": true, "demo": true}},
		{"uppercase normalized", "PROVIDER,Demo", map[string]bool{"provider": true, "demo": true}},
		{"empty segments", "provider,,demo", map[string]bool{"provider": true, "demo": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCategories(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseCategories(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("provider,streaming")

	if !Enabled("provider") {
		t.Error("provider should be enabled")
	}
	if !Enabled("streaming") {
		t.Error("streaming should be enabled")
	}
	if Enabled("config") {
		t.Error("config should not be enabled")
	}
}

func TestEnabled_All(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("all")

	for _, c := range []string{"provider", "demo", "anything"} {
		if !Enabled(c) {
			t.Errorf("%s should be enabled via 'all'", c)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	for _, s := range []string{"trace", "DEBUG", "info", "", "warn", "error"} {
		if !ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = false, want true", s)
		}
	}
	if ValidLevel("verbose") {
		t.Error("ValidLevel(\"verbose\") = true, want false")
	}
}

func TestInit_WritesToGivenWriter(t *testing.T) {
	origCats := categories
	origLogger := slog.Default()
	origRaw := rawOut
	defer func() {
		categories = origCats
		slog.SetDefault(origLogger)
		rawOut = origRaw
	}()

	var buf bytes.Buffer
	Init(&buf, "provider", "TRACE")

	Log("provider", "sending request", "model", "gpt-4o")
	Log("config", "hidden")
	Raw("provider", "RAW BODY")

	out := buf.String()
	if !strings.Contains(out, "sending request") {
		t.Errorf("expected debug line in output, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("disabled category leaked into output: %q", out)
	}
	if !strings.Contains(out, "RAW BODY") {
		t.Errorf("expected raw text at TRACE, got %q", out)
	}
	if diff := cmp.Diff([]string{"provider"}, Categories()); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate short = %q, want %q", got, "short")
	}
	if got := Truncate("this is a long string", 10); got != "this is a ..." {
		t.Errorf("Truncate long = %q, want %q", got, "this is a ...")
	}
}

func TestLog_DisabledCategory(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("")

	// Should not panic or produce output.
	Log("provider", "test message", "key", "value")
	Trace("provider", "trace message", "key", "value")
}
