// Package config loads mfsm topologies from YAML, TOML or JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/comalice/mfsm"
)

// Config describes a set of listeners and the queues they subscribe to.
// Zero capacities select the mfsm package defaults.
type Config struct {
	Listeners []ListenerConfig `json:"listeners" yaml:"listeners" toml:"listeners"`
	Queues    []QueueConfig    `json:"queues" yaml:"queues" toml:"queues"`
}

type ListenerConfig struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Capacity int    `json:"capacity" yaml:"capacity" toml:"capacity"`
	Order    string `json:"order,omitempty" yaml:"order,omitempty" toml:"order,omitempty"`
}

type QueueConfig struct {
	Name      string   `json:"name" yaml:"name" toml:"name"`
	Capacity  int      `json:"capacity" yaml:"capacity" toml:"capacity"`
	Listeners []string `json:"listeners" yaml:"listeners" toml:"listeners"`
}

// Load reads a configuration file based on its extension and validates it.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("empty config path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// Parse decodes data in the given format ("yaml", "yml", "json" or "toml")
// and validates the result.
func Parse(data []byte, format string) (Config, error) {
	var cfg Config
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse json: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format: %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseOrder converts an order name to mfsm.Order. The empty string selects LIFO.
func ParseOrder(s string) (mfsm.Order, error) {
	switch strings.ToLower(s) {
	case "", "lifo":
		return mfsm.LIFO, nil
	case "fifo":
		return mfsm.FIFO, nil
	default:
		return mfsm.LIFO, fmt.Errorf("unknown order %q", s)
	}
}

// Validate checks names, capacities and orders. Subscription references are
// checked by Build.
func (c Config) Validate() error {
	var errs []error
	for i, l := range c.Listeners {
		if l.Name == "" {
			errs = append(errs, fmt.Errorf("listeners[%d]: name is required", i))
		}
		if l.Capacity < 0 {
			errs = append(errs, fmt.Errorf("listener %q: negative capacity %d", l.Name, l.Capacity))
		}
		if _, err := ParseOrder(l.Order); err != nil {
			errs = append(errs, fmt.Errorf("listener %q: %w", l.Name, err))
		}
	}
	for i, q := range c.Queues {
		if q.Name == "" {
			errs = append(errs, fmt.Errorf("queues[%d]: name is required", i))
		}
		if q.Capacity < 0 {
			errs = append(errs, fmt.Errorf("queue %q: negative capacity %d", q.Name, q.Capacity))
		}
	}
	return errors.Join(errs...)
}

// Build allocates the configured topology. logger and observer may be nil.
func (c Config) Build(logger *slog.Logger, observer mfsm.Observer) (*mfsm.Topology, error) {
	b := mfsm.NewTopologyBuilder().Logger(logger).Observer(observer)
	for _, l := range c.Listeners {
		order, err := ParseOrder(l.Order)
		if err != nil {
			return nil, fmt.Errorf("listener %q: %w", l.Name, err)
		}
		b.Listener(l.Name, l.Capacity, mfsm.WithOrder(order))
	}
	for _, q := range c.Queues {
		b.Queue(q.Name, q.Capacity)
		if len(q.Listeners) > 0 {
			b.Subscribe(q.Name, q.Listeners...)
		}
	}
	return b.Build()
}
