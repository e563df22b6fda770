package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

// TestLoggerFields tests that party context is attached to events
func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: "debug", Output: &buf})

	log.Party("engine", 2).Debug().Str("var", "priv").Msg("share received")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log line %q: %v", buf.String(), err)
	}

	if entry["component"] != "engine" {
		t.Errorf("component = %v, want engine", entry["component"])
	}
	if entry["party"] != float64(2) {
		t.Errorf("party = %v, want 2", entry["party"])
	}
	if entry["var"] != "priv" {
		t.Errorf("var = %v, want priv", entry["var"])
	}
}

// TestLoggerLevel tests that events below the configured level are dropped
func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: "warn", Output: &buf})

	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("Expected info to be dropped, got %q", buf.String())
	}

	log.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Error("Expected warn to be written")
	}
}

// TestNop tests the discarding logger
func TestNop(t *testing.T) {
	Nop().Error().Int("n", 1).Msg("ignored")
}
