package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config is the full process configuration, loaded once at startup and
// passed explicitly to every component. There is no other global state.
type Config struct {
	Primary Primary      `koanf:"primary"`
	Source  SourceConfig `koanf:"source" validate:"required"`
	Sink    SinkConfig   `koanf:"sink" validate:"required"`
	Scaler  ScalerConfig `koanf:"scaler"`
	Server  ServerConfig `koanf:"server"`
	Log     LogConfig    `koanf:"log"`
}

type Primary struct {
	Env string `koanf:"env"`
}

// SourceConfig identifies the external log stream. Kind selects the
// implementation; docker requires a container name, file a path.
// Missing identity is a fatal startup error.
type SourceConfig struct {
	Kind       string `koanf:"kind" validate:"required,oneof=docker file stdin"`
	Container  string `koanf:"container" validate:"required_if=Kind docker"`
	Path       string `koanf:"path" validate:"required_if=Kind file"`
	FromStart  bool   `koanf:"from_start"`
	PollWaitMS int    `koanf:"poll_wait_ms" validate:"gte=0"`
}

// SinkConfig describes the remote indexing endpoint.
type SinkConfig struct {
	URL       string `koanf:"url" validate:"required,url"`
	TimeoutMS int    `koanf:"timeout_ms" validate:"gte=0"`
}

// ScalerConfig tunes the sender pool and its scaling controller.
type ScalerConfig struct {
	DepthThreshold  int `koanf:"depth_threshold" validate:"gte=1"`
	BaseDelayMS     int `koanf:"base_delay_ms" validate:"gte=0"`
	DelayStepMS     int `koanf:"delay_step_ms" validate:"gte=0"`
	MinDelayMS      int `koanf:"min_delay_ms" validate:"gte=0"`
	MinWorkers      int `koanf:"min_workers" validate:"gte=1"`
	MaxWorkers      int `koanf:"max_workers" validate:"gte=1"`
	IdleWaitMS      int `koanf:"idle_wait_ms" validate:"gte=0"`
	RetireAfterIdle int `koanf:"retire_after_idle" validate:"gte=1"`
	NoMatchYieldMS  int `koanf:"no_match_yield_ms" validate:"gte=0"`
}

type ServerConfig struct {
	Port         string `koanf:"port"`
	ReadTimeout  int    `koanf:"read_timeout"`
	WriteTimeout int    `koanf:"write_timeout"`
	IdleTimeout  int    `koanf:"idle_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

func (s *SourceConfig) PollWait() time.Duration { return time.Duration(s.PollWaitMS) * time.Millisecond }

func (s *SinkConfig) Timeout() time.Duration { return time.Duration(s.TimeoutMS) * time.Millisecond }

func (s *ScalerConfig) BaseDelay() time.Duration { return time.Duration(s.BaseDelayMS) * time.Millisecond }

func (s *ScalerConfig) DelayStep() time.Duration { return time.Duration(s.DelayStepMS) * time.Millisecond }

func (s *ScalerConfig) MinDelay() time.Duration { return time.Duration(s.MinDelayMS) * time.Millisecond }

func (s *ScalerConfig) IdleWait() time.Duration { return time.Duration(s.IdleWaitMS) * time.Millisecond }

func (s *ScalerConfig) NoMatchYield() time.Duration {
	return time.Duration(s.NoMatchYieldMS) * time.Millisecond
}

// Load reads configuration from LOGLIFT_-prefixed environment variables
// using koanf. Nested keys use a double underscore, e.g.
// LOGLIFT_SOURCE__CONTAINER maps to source.container. Defaults are
// applied before validation.
func Load() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider("LOGLIFT_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "LOGLIFT_")), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// MustLoad loads the configuration and exits the process with a
// non-zero status on any error, before any component starts.
func MustLoad() *Config {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	cfg, err := Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "development"
	}
	if c.Source.PollWaitMS == 0 {
		c.Source.PollWaitMS = 250
	}
	if c.Sink.TimeoutMS == 0 {
		c.Sink.TimeoutMS = 5000
	}

	s := &c.Scaler
	if s.DepthThreshold == 0 {
		s.DepthThreshold = 100
	}
	if s.BaseDelayMS == 0 {
		s.BaseDelayMS = 1000
	}
	if s.DelayStepMS == 0 {
		s.DelayStepMS = 100
	}
	if s.MinDelayMS == 0 {
		s.MinDelayMS = 100
	}
	if s.MinWorkers == 0 {
		s.MinWorkers = 1
	}
	if s.MaxWorkers == 0 {
		s.MaxWorkers = 64
	}
	if s.IdleWaitMS == 0 {
		s.IdleWaitMS = 500
	}
	if s.RetireAfterIdle == 0 {
		s.RetireAfterIdle = 20
	}
	if s.NoMatchYieldMS == 0 {
		s.NoMatchYieldMS = 5
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
