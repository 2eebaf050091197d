// Package camera owns the capture device and produces timestamped frames.
package camera

// Config holds capture device settings.
type Config struct {
	DeviceID int `json:"device_id" yaml:"device_id"` // V4L2 / AVFoundation device index
	Width    int `json:"width" yaml:"width"`         // Frame width in pixels
	Height   int `json:"height" yaml:"height"`       // Frame height in pixels
	FPS      int `json:"fps" yaml:"fps"`             // Target FPS (0 = driver default)
	Quality  int `json:"quality" yaml:"quality"`     // JPEG quality 1-100
}

// DefaultConfig returns the recommended capture configuration.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
		Width:    1280,
		Height:   720,
		FPS:      30,
		Quality:  85,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.DeviceID < 0 {
		errors = append(errors, "device_id must not be negative")
	}
	if c.Width < 160 || c.Width > 4096 {
		errors = append(errors, "width must be between 160 and 4096")
	}
	if c.Height < 120 || c.Height > 2160 {
		errors = append(errors, "height must be between 120 and 2160")
	}
	if c.FPS < 0 || c.FPS > 120 {
		errors = append(errors, "fps must be between 0 and 120")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}
