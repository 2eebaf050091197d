package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fitsight/fitsight/pkg/pose"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fitsight.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if _, ok := cfg.Workouts["pushups"]; !ok {
		t.Error("default catalog missing pushups")
	}
	if _, ok := cfg.Workouts["squats"]; !ok {
		t.Error("default catalog missing squats")
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != Default().Port {
		t.Errorf("port: got %d, want %d", cfg.Port, Default().Port)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
port: 9000
camera:
  device_id: 2
  quality: 70
workouts:
  curls:
    display_name: Bicep curls
    joints: [left_elbow]
    min_threshold: 60
    max_threshold: 150
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("port: got %d, want 9000", cfg.Port)
	}
	if cfg.Camera.DeviceID != 2 {
		t.Errorf("device id: got %d, want 2", cfg.Camera.DeviceID)
	}
	if cfg.Camera.Quality != 70 {
		t.Errorf("quality: got %d, want 70", cfg.Camera.Quality)
	}
	// Untouched defaults survive the overlay.
	if cfg.Camera.Width != Default().Camera.Width {
		t.Errorf("width: got %d, want default %d", cfg.Camera.Width, Default().Camera.Width)
	}

	rule, ok := cfg.Workouts["curls"]
	if !ok {
		t.Fatal("curls workout not loaded")
	}
	if rule.ID != "curls" {
		t.Errorf("rule id filled from map key: got %q, want curls", rule.ID)
	}
	if len(rule.Joints) != 1 || rule.Joints[0] != pose.JointLeftElbow {
		t.Errorf("joints: got %v, want [left_elbow]", rule.Joints)
	}
}

func TestLoad_RejectsInvalidRule(t *testing.T) {
	path := writeConfig(t, `
workouts:
  broken:
    display_name: Broken
    joints: [left_elbow]
    min_threshold: 150
    max_threshold: 60
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load: got nil error for inverted thresholds")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error should name the workout: %v", err)
	}
}

func TestLoad_RejectsBadPort(t *testing.T) {
	path := writeConfig(t, "port: 70000\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: got nil error for out-of-range port")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load: got nil error for missing file")
	}
}
