// Package config loads pipeline and logging settings from YAML.
//
// Durations are written as Go duration strings ("5s", "1m30s"). Keys left
// out of a file keep their Default() values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jzx17/goresilience/pkg/observe"
	"github.com/jzx17/goresilience/pkg/retry"
	"github.com/jzx17/goresilience/pkg/timeout"
	"github.com/jzx17/goresilience/pkg/types"
)

// Settings is the root of a configuration file
type Settings struct {
	Pipeline  PipelineSettings  `yaml:"pipeline"`
	Logging   LoggingSettings   `yaml:"logging"`
	Telemetry TelemetrySettings `yaml:"telemetry"`
}

// PipelineSettings configures the four layers of a pipeline
type PipelineSettings struct {
	Name         string        `yaml:"name"`
	OuterTimeout time.Duration `yaml:"outer_timeout"`
	InnerTimeout time.Duration `yaml:"inner_timeout"`
	Retry        RetrySettings `yaml:"retry"`
}

// RetrySettings configures the retry layer
type RetrySettings struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
	Growth      string        `yaml:"growth"`
	Jitter      bool          `yaml:"jitter"`
}

// LoggingSettings configures the zap logger
type LoggingSettings struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// TelemetrySettings selects where spans and metrics go
type TelemetrySettings struct {
	// Exporter is none or stdout
	Exporter string `yaml:"exporter"`
}

// Default returns the built-in settings
func Default() *Settings {
	return &Settings{
		Pipeline: PipelineSettings{
			Name:         "http",
			OuterTimeout: 60 * time.Second,
			InnerTimeout: 5 * time.Second,
			Retry: RetrySettings{
				MaxAttempts: 3,
				BaseDelay:   3 * time.Second,
				MaxDelay:    10 * time.Second,
				Growth:      retry.GrowthLinear.String(),
				Jitter:      true,
			},
		},
		Logging: LoggingSettings{
			Level:    "debug",
			Encoding: "console",
		},
		Telemetry: TelemetrySettings{
			Exporter: "none",
		},
	}
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads and parses the file at path
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return Parse(data)
}

// Validate checks every section
func (s *Settings) Validate() error {
	if err := s.Pipeline.Validate(); err != nil {
		return err
	}
	if err := s.Logging.Validate(); err != nil {
		return err
	}
	return s.Telemetry.Validate()
}

// Validate checks the pipeline section
func (p PipelineSettings) Validate() error {
	if err := p.Outer().Validate(); err != nil {
		return fmt.Errorf("outer_timeout: %w", err)
	}
	if err := p.Inner().Validate(); err != nil {
		return fmt.Errorf("inner_timeout: %w", err)
	}
	if p.Retry.MaxAttempts < 0 {
		return fmt.Errorf("retry.max_attempts: %w: must not be negative", types.ErrInvalidConfig)
	}
	b, err := p.Backoff()
	if err != nil {
		return fmt.Errorf("retry.growth: %w", err)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("retry: %w", err)
	}
	return nil
}

// Backoff converts the retry section to a backoff configuration
func (p PipelineSettings) Backoff() (retry.Backoff, error) {
	growth, err := retry.ParseGrowthMode(p.Retry.Growth)
	if err != nil {
		return retry.Backoff{}, err
	}
	return retry.Backoff{
		BaseDelay: p.Retry.BaseDelay,
		MaxDelay:  p.Retry.MaxDelay,
		Growth:    growth,
		Jitter:    p.Retry.Jitter,
	}, nil
}

// RetryAttempts returns the retry budget
func (p PipelineSettings) RetryAttempts() int {
	return p.Retry.MaxAttempts
}

// Outer returns the outer timeout configuration without a hook
func (p PipelineSettings) Outer() timeout.Config {
	return timeout.Config{Name: "outer-timeout", Duration: p.OuterTimeout}
}

// Inner returns the per-attempt timeout configuration without a hook
func (p PipelineSettings) Inner() timeout.Config {
	return timeout.Config{Name: "inner-timeout", Duration: p.InnerTimeout}
}

// Validate checks the logging section
func (l LoggingSettings) Validate() error {
	if _, err := observe.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch l.Encoding {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.encoding: unknown encoding %q", l.Encoding)
	}
}

// LogConfig converts the logging section for observe.NewZapLogger
func (l LoggingSettings) LogConfig() observe.LogConfig {
	return observe.LogConfig{Level: l.Level, Encoding: l.Encoding}
}

// Validate checks the telemetry section
func (t TelemetrySettings) Validate() error {
	switch t.Exporter {
	case "", "none", "stdout":
		return nil
	default:
		return fmt.Errorf("telemetry.exporter: unknown exporter %q", t.Exporter)
	}
}
