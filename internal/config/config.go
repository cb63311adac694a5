// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/innosenze88/ExpertAdvisor/internal/strategy"
)

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid config")

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	Pretty      bool   `yaml:"pretty"`
}

// Server describes the terminal-facing TCP listener.
type Server struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	ReadBufferSize int    `yaml:"read_buffer_size"`
	IdlePollMs     int    `yaml:"idle_poll_ms"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms"`
}

// StrategyParams groups tunable knobs for the signal rule.
type StrategyParams struct {
	BuyBelow  float64 `yaml:"buy_below"`
	SellAbove float64 `yaml:"sell_above"`
	Point     float64 `yaml:"point"`
}

// Strategy specifies which strategy is active along with the parameter bundle.
type Strategy struct {
	Mode   string         `yaml:"mode"`
	Params StrategyParams `yaml:"params"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Server   Server   `yaml:"server"`
	Strategy Strategy `yaml:"strategy"`
}

// Default returns the reference settings: 127.0.0.1:8888, 1 KiB reads, RSI 30/70 and a 0.001 point.
func Default() Config {
	return Config{
		App: App{
			Name:     "expert-advisor",
			Env:      "dev",
			LogLevel: "info",
		},
		Server: Server{
			Host:           "127.0.0.1",
			Port:           8888,
			ReadBufferSize: 1024,
			IdlePollMs:     1000,
		},
		Strategy: Strategy{
			Mode: "rsi",
			Params: StrategyParams{
				BuyBelow:  strategy.DefaultBuyBelow,
				SellAbove: strategy.DefaultSellAbove,
				Point:     strategy.DefaultPoint,
			},
		},
	}
}

// Load reads a YAML file from disk over the defaults and validates the result.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks the invariants the listener and strategy rely on.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Server.Port)
	}
	if c.Server.ReadBufferSize <= 0 {
		return fmt.Errorf("%w: read_buffer_size must be positive", ErrInvalid)
	}
	if c.Server.IdlePollMs < 0 || c.Server.WriteTimeoutMs < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalid)
	}
	if _, err := strategy.Build(c.Strategy.Mode, c.Strategy.StrategyParams()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if p := c.Strategy.Params; p.BuyBelow > p.SellAbove {
		return fmt.Errorf("%w: buy_below %.2f above sell_above %.2f", ErrInvalid, p.BuyBelow, p.SellAbove)
	}
	return nil
}

// Addr joins host and port for net.Listen.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IdlePoll is how long a read may park before the session rechecks for shutdown.
func (s Server) IdlePoll() time.Duration {
	if s.IdlePollMs <= 0 {
		return time.Second
	}
	return time.Duration(s.IdlePollMs) * time.Millisecond
}

// WriteTimeout bounds a single response write; zero disables the deadline.
func (s Server) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutMs) * time.Millisecond
}

// StrategyParams converts the YAML bundle into constructor params.
func (s Strategy) StrategyParams() strategy.Params {
	return strategy.Params{
		BuyBelow:  s.Params.BuyBelow,
		SellAbove: s.Params.SellAbove,
		Point:     s.Params.Point,
	}
}
