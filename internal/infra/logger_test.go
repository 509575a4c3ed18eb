package infra

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		appEnv    string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{name: "production default", appEnv: "production", wantInfo: true},
		{name: "development default", appEnv: "development", wantDebug: true, wantInfo: true},
		{name: "override to warn", appEnv: "development", level: "WARN"},
		{name: "override to debug", appEnv: "production", level: "debug", wantDebug: true, wantInfo: true},
		{name: "unknown level keeps default", appEnv: "production", level: "chatty", wantInfo: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tc.appEnv, tc.level)
			logger.Debug().Msg("debug-line")
			logger.Info().Msg("info-line")

			out := buf.String()
			if got := strings.Contains(out, "debug-line"); got != tc.wantDebug {
				t.Fatalf("debug emitted = %v, want %v: %s", got, tc.wantDebug, out)
			}
			if got := strings.Contains(out, "info-line"); got != tc.wantInfo {
				t.Fatalf("info emitted = %v, want %v: %s", got, tc.wantInfo, out)
			}
		})
	}
}

func TestNewLoggerJSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "")
	logger.Info().Str("email", "a@x.test").Msg("account processed")
	if !strings.Contains(buf.String(), `"email":"a@x.test"`) {
		t.Fatalf("expected JSON output, got %s", buf.String())
	}
}
