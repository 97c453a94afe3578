// Package config loads verification settings from YAML.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/vidseq/pkg/contactsheet"
	"github.com/user/vidseq/pkg/orchestrator"
	"github.com/user/vidseq/pkg/pipeline"
	"github.com/user/vidseq/pkg/ports"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Config represents the full configuration for vidseq.
type Config struct {
	// Windowing
	FramesPerSequence int        `yaml:"frames_per_sequence"`
	MaxSequences      int        `yaml:"max_sequences"`
	Resize            SizeConfig `yaml:"resize"`

	// Sources
	FixturesRoot string   `yaml:"fixtures_root"`
	Patterns     []string `yaml:"patterns"`
	Exclude      []string `yaml:"exclude"`
	Codecs       []string `yaml:"codecs"` // empty keeps every codec

	// Decoder
	FFmpegPath string `yaml:"ffmpeg_path"`
	TempDir    string `yaml:"temp_dir"`

	// Run
	FailFast bool   `yaml:"fail_fast"`
	LogLevel string `yaml:"log_level"`

	// Debug
	Debug         bool        `yaml:"debug"`
	DebugDir      string      `yaml:"debug_dir"`
	SaveSequences bool        `yaml:"save_sequences"`
	ContactSheet  SheetConfig `yaml:"contact_sheet"`

	// Summary
	Summary       string `yaml:"summary"`
	SummaryFormat string `yaml:"summary_format"` // markdown or json
}

// SizeConfig is a width × height pair. The zero value disables resizing.
type SizeConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SheetConfig configures debug contact sheets.
type SheetConfig struct {
	Columns    int    `yaml:"columns"`
	Scale      int    `yaml:"scale"`
	Background string `yaml:"background"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		FramesPerSequence: 5,

		FixturesRoot: ".",
		Patterns:     []string{"[cv]fr/*.mp4"},
		Exclude:      []string{"hevc", "mpeg4"},

		LogLevel: "info",

		DebugDir: "./debug",
		ContactSheet: SheetConfig{
			Columns:    5,
			Scale:      1,
			Background: "#202020",
		},

		SummaryFormat: "markdown",
	}
}

// LoadFromFile loads configuration from a YAML file over Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values a run cannot start without.
func (c Config) Validate() error {
	var problems []string
	if c.FramesPerSequence <= 0 {
		problems = append(problems, fmt.Sprintf("frames_per_sequence must be positive, got %d", c.FramesPerSequence))
	}
	if c.MaxSequences < 0 {
		problems = append(problems, fmt.Sprintf("max_sequences must not be negative, got %d", c.MaxSequences))
	}
	if (c.Resize.Width == 0) != (c.Resize.Height == 0) || c.Resize.Width < 0 || c.Resize.Height < 0 {
		problems = append(problems, fmt.Sprintf("resize must set both width and height, got %dx%d", c.Resize.Width, c.Resize.Height))
	}
	switch c.SummaryFormat {
	case "", "markdown", "json":
	default:
		problems = append(problems, fmt.Sprintf("summary_format must be markdown or json, got %q", c.SummaryFormat))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}

// ParseSize parses "WIDTHxHEIGHT", e.g. "20x15".
func ParseSize(s string) (SizeConfig, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return SizeConfig{}, fmt.Errorf("%w: size %q is not WIDTHxHEIGHT", ErrInvalid, s)
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return SizeConfig{}, fmt.Errorf("%w: size %q is not WIDTHxHEIGHT", ErrInvalid, s)
	}
	return SizeConfig{Width: width, Height: height}, nil
}

// ParseColor parses a hex color string such as "#1a1a2e" or "fff".
// Malformed input yields black.
func ParseColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.Black
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// SheetOptions converts the contact sheet settings.
func (c Config) SheetOptions() contactsheet.Options {
	opts := contactsheet.DefaultOptions()
	if c.ContactSheet.Columns > 0 {
		opts.Columns = c.ContactSheet.Columns
	}
	if c.ContactSheet.Scale > 0 {
		opts.Scale = c.ContactSheet.Scale
	}
	if c.ContactSheet.Background != "" {
		opts.Background = ParseColor(c.ContactSheet.Background)
	}
	return opts
}

// ToOrchestratorConfig converts Config to orchestrator.Config for the
// given sources.
func (c Config) ToOrchestratorConfig(sources []string) orchestrator.Config {
	return orchestrator.Config{
		Sources:           sources,
		FramesPerSequence: c.FramesPerSequence,
		MaxSequences:      c.MaxSequences,
		Resize:            pipeline.Dimension{Width: c.Resize.Width, Height: c.Resize.Height},
		SaveSequences:     c.SaveSequences,
		FailFast:          c.FailFast,
	}
}
