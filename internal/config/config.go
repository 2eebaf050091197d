// Package config loads fitsight configuration: capture device, transport
// port, pose model, history paths, and the workout rule catalog.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fitsight/fitsight/pkg/camera"
	"github.com/fitsight/fitsight/pkg/pose"
	"github.com/fitsight/fitsight/pkg/reps"
)

// Config is the full application configuration.
type Config struct {
	Camera      camera.Config        `yaml:"camera"`
	Port        int                  `yaml:"port"`
	Pose        pose.Config          `yaml:"pose"`
	DBPath      string               `yaml:"db_path"`
	SummaryPath string               `yaml:"summary_path"`
	Workouts    map[string]reps.Rule `yaml:"workouts"`
}

// Default returns the built-in configuration, including the stock workout
// catalog. A config file overlays these values.
func Default() Config {
	return Config{
		Camera:      camera.DefaultConfig(),
		Port:        8765,
		Pose:        pose.DefaultConfig(),
		DBPath:      "fitsight.db",
		SummaryPath: "reps_summary.json",
		Workouts: map[string]reps.Rule{
			"pushups": {
				ID:           "pushups",
				DisplayName:  "Push-ups",
				Joints:       []pose.Joint{pose.JointLeftElbow, pose.JointRightElbow},
				MinThreshold: 120,
				MaxThreshold: 145,
				Feedback: []reps.Band{
					{Min: 0, Max: 119, Message: "drive back up"},
					{Min: 120, Max: 145, Message: "good depth, keep your core tight"},
					{Min: 146, Max: 180, Message: "lower your chest"},
				},
				Alert: &reps.AlertRule{
					Joint: pose.JointLeftShoulder,
					Above: floatPtr(100), // elbow flare
				},
			},
			"squats": {
				ID:           "squats",
				DisplayName:  "Squats",
				Joints:       []pose.Joint{pose.JointLeftKnee, pose.JointRightKnee},
				MinThreshold: 95,
				MaxThreshold: 160,
				Feedback: []reps.Band{
					{Min: 0, Max: 94, Message: "great depth, now stand tall"},
					{Min: 95, Max: 160, Message: "keep your chest up"},
					{Min: 161, Max: 180, Message: "lower your hips"},
				},
			},
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing path ("")
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	// Workout map keys double as rule ids.
	for id, rule := range cfg.Workouts {
		if rule.ID == "" {
			rule.ID = id
			cfg.Workouts[id] = rule
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if errs := c.Camera.Validate(); len(errs) > 0 {
		return fmt.Errorf("camera config: %v", errs)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if len(c.Workouts) == 0 {
		return fmt.Errorf("no workouts configured")
	}
	for id, rule := range c.Workouts {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("workout %q: %w", id, err)
		}
	}
	return nil
}

func floatPtr(v float64) *float64 { return &v }
