// Package config loads dance-companion settings from defaults, an optional
// JSON file and DANCE_* environment variables. CLI flags are applied on top
// by the command.
package config

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/teslashibe/dance-companion/pkg/companion"
	"github.com/teslashibe/dance-companion/pkg/display"
	"github.com/teslashibe/dance-companion/pkg/mirror"
	"github.com/teslashibe/dance-companion/pkg/pose"
	"github.com/teslashibe/dance-companion/pkg/video"
)

// EnvPrefix is prepended to environment overrides, e.g. DANCE_STYLE_OFFSET.
const EnvPrefix = "DANCE"

// Display modes.
const (
	DisplayWindow = "window"
	DisplayWeb    = "web"
)

// StyleConfig mirrors mirror.Style with colors as [B,G,R] triples.
type StyleConfig struct {
	Offset          int   `json:"offset" mapstructure:"offset"`
	Radius          int   `json:"radius" mapstructure:"radius"`
	Thickness       int   `json:"thickness" mapstructure:"thickness"`
	LandmarkColor   []int `json:"landmarkColor" mapstructure:"landmarkColor"`
	ConnectionColor []int `json:"connectionColor" mapstructure:"connectionColor"`
}

// PoseConfig holds the detector settings.
type PoseConfig struct {
	Model              string  `json:"model" mapstructure:"model"`
	Confidence         float32 `json:"confidence" mapstructure:"confidence"`
	KeypointConfidence float32 `json:"keypointConfidence" mapstructure:"keypointConfidence"`
	NMS                float32 `json:"nms" mapstructure:"nms"`
}

// WebConfig holds the preview server settings.
type WebConfig struct {
	Port        int `json:"port" mapstructure:"port"`
	JPEGQuality int `json:"jpegQuality" mapstructure:"jpegQuality"`
}

// Config is the full application configuration.
type Config struct {
	Input    string      `json:"input" mapstructure:"input"`
	Webcam   int         `json:"webcam" mapstructure:"webcam"`
	Display  string      `json:"display" mapstructure:"display"`
	LogLevel string      `json:"logLevel" mapstructure:"logLevel"`
	WaitMs   int         `json:"waitMs" mapstructure:"waitMs"`
	Style    StyleConfig `json:"style" mapstructure:"style"`
	Pose     PoseConfig  `json:"pose" mapstructure:"pose"`
	Web      WebConfig   `json:"web" mapstructure:"web"`
}

// DefaultConfig returns the built-in defaults. No source is selected.
func DefaultConfig() Config {
	style := mirror.DefaultStyle()
	det := pose.DefaultConfig()
	return Config{
		Input:    "",
		Webcam:   video.NoDevice,
		Display:  DisplayWindow,
		LogLevel: "info",
		WaitMs:   int(companion.DefaultWaitBudget / time.Millisecond),
		Style: StyleConfig{
			Offset:          style.OffsetX,
			Radius:          style.CircleRadius,
			Thickness:       style.LineThickness,
			LandmarkColor:   bgr(style.LandmarkColor),
			ConnectionColor: bgr(style.ConnectionColor),
		},
		Pose: PoseConfig{
			Model:              det.ModelPath,
			Confidence:         det.ConfidenceThresh,
			KeypointConfidence: det.KeypointThresh,
			NMS:                det.NMSThresh,
		},
		Web: WebConfig{
			Port:        8090,
			JPEGQuality: display.DefaultJPEGQuality,
		},
	}
}

// LoadFile reads settings from path (JSON) and DANCE_* environment variables
// over the defaults. An empty path loads defaults and environment only.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("input", d.Input)
	v.SetDefault("webcam", d.Webcam)
	v.SetDefault("display", d.Display)
	v.SetDefault("logLevel", d.LogLevel)
	v.SetDefault("waitMs", d.WaitMs)

	v.SetDefault("style.offset", d.Style.Offset)
	v.SetDefault("style.radius", d.Style.Radius)
	v.SetDefault("style.thickness", d.Style.Thickness)
	v.SetDefault("style.landmarkColor", d.Style.LandmarkColor)
	v.SetDefault("style.connectionColor", d.Style.ConnectionColor)

	v.SetDefault("pose.model", d.Pose.Model)
	v.SetDefault("pose.confidence", d.Pose.Confidence)
	v.SetDefault("pose.keypointConfidence", d.Pose.KeypointConfidence)
	v.SetDefault("pose.nms", d.Pose.NMS)

	v.SetDefault("web.port", d.Web.Port)
	v.SetDefault("web.jpegQuality", d.Web.JPEGQuality)
}

// Validate checks source selection and value ranges.
func (c Config) Validate() error {
	hasInput := c.Input != ""
	hasWebcam := c.Webcam >= 0
	switch {
	case hasInput && hasWebcam:
		return ErrSourceConflict
	case !hasInput && !hasWebcam:
		return ErrSourceRequired
	}

	if c.Display != DisplayWindow && c.Display != DisplayWeb {
		return invalid("display", "must be %q or %q, got %q", DisplayWindow, DisplayWeb, c.Display)
	}
	if c.Style.Radius < 1 {
		return invalid("style.radius", "must be >= 1, got %d", c.Style.Radius)
	}
	if c.Style.Thickness < 1 || c.Style.Thickness > mirror.MaxLineThickness {
		return invalid("style.thickness", "must be in [1,%d], got %d", mirror.MaxLineThickness, c.Style.Thickness)
	}
	if err := checkColor("style.landmarkColor", c.Style.LandmarkColor); err != nil {
		return err
	}
	if err := checkColor("style.connectionColor", c.Style.ConnectionColor); err != nil {
		return err
	}
	if c.Pose.Model == "" {
		return invalid("pose.model", "path is empty")
	}
	if c.Pose.Confidence < 0 || c.Pose.Confidence > 1 {
		return invalid("pose.confidence", "must be in [0,1], got %v", c.Pose.Confidence)
	}
	if c.Pose.KeypointConfidence < 0 || c.Pose.KeypointConfidence > 1 {
		return invalid("pose.keypointConfidence", "must be in [0,1], got %v", c.Pose.KeypointConfidence)
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return invalid("web.port", "out of range: %d", c.Web.Port)
	}
	if c.Web.JPEGQuality < 1 || c.Web.JPEGQuality > 100 {
		return invalid("web.jpegQuality", "must be in [1,100], got %d", c.Web.JPEGQuality)
	}
	if c.WaitMs < 1 {
		return invalid("waitMs", "must be >= 1, got %d", c.WaitMs)
	}
	return nil
}

func checkColor(key string, c []int) error {
	if len(c) != 3 {
		return invalid(key, "want [B,G,R], got %v", c)
	}
	for _, ch := range c {
		if ch < 0 || ch > 255 {
			return invalid(key, "channel out of range: %v", c)
		}
	}
	return nil
}

// ToStyle converts to the mirror render configuration. Call Validate first.
func (c Config) ToStyle() mirror.Style {
	return mirror.Style{
		LandmarkColor:   fromBGR(c.Style.LandmarkColor),
		ConnectionColor: fromBGR(c.Style.ConnectionColor),
		CircleRadius:    c.Style.Radius,
		LineThickness:   c.Style.Thickness,
		OffsetX:         c.Style.Offset,
	}
}

// ToSource converts to the capture source selection.
func (c Config) ToSource() video.Source {
	if c.Input != "" {
		return video.File(c.Input)
	}
	return video.Webcam(c.Webcam)
}

// ToPose converts to the detector configuration.
func (c Config) ToPose() pose.Config {
	cfg := pose.DefaultConfig()
	cfg.ModelPath = c.Pose.Model
	cfg.ConfidenceThresh = c.Pose.Confidence
	cfg.KeypointThresh = c.Pose.KeypointConfidence
	cfg.NMSThresh = c.Pose.NMS
	return cfg
}

// ToApp converts to the orchestration loop configuration.
func (c Config) ToApp() companion.Config {
	cfg := companion.DefaultConfig()
	cfg.Style = c.ToStyle()
	cfg.WaitBudget = time.Duration(c.WaitMs) * time.Millisecond
	return cfg
}

func bgr(c color.RGBA) []int {
	return []int{int(c.B), int(c.G), int(c.R)}
}

func fromBGR(c []int) color.RGBA {
	if len(c) != 3 {
		return color.RGBA{}
	}
	return mirror.BGR(uint8(c[0]), uint8(c[1]), uint8(c[2]))
}
