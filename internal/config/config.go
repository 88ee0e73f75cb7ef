package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/mouseproc/internal/input/mouse"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MOUSEPROC_"

// Config is the replay harness configuration.
type Config struct {
	Script      ScriptConfig       `toml:"script"`
	Replay      ReplayConfig       `toml:"replay"`
	Logging     LoggingConfig      `toml:"logging"`
	Objects     []ObjectConfig     `toml:"object"`
	Connections []ConnectionConfig `toml:"connection"`
}

// ScriptConfig configures the Lua proc runtime.
type ScriptConfig struct {
	// Path is the Lua file defining procs. Empty runs only the defaults.
	Path string `toml:"path"`
	// QueueSize bounds invocations waiting for the runtime.
	QueueSize int `toml:"queue_size"`
	// CallTimeoutMS bounds a single proc call.
	CallTimeoutMS int `toml:"call_timeout_ms"`
}

// CallTimeout returns the call timeout as a duration.
func (s ScriptConfig) CallTimeout() time.Duration {
	return time.Duration(s.CallTimeoutMS) * time.Millisecond
}

// ReplayConfig configures the event source and trace output.
type ReplayConfig struct {
	// Events is the JSON lines event log. "-" reads stdin.
	Events string `toml:"events"`
	// Trace receives one JSON line per invocation. "-" writes stdout,
	// empty disables tracing.
	Trace string `toml:"trace"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// ObjectConfig declares one world object.
type ObjectConfig struct {
	ID   string `toml:"id"`
	Type string `toml:"type"`
	Name string `toml:"name"`

	// Loc is the id of the containing object. Turfs use X, Y and Z
	// instead, and may name their area in Loc.
	Loc string `toml:"loc"`
	X   int    `toml:"x"`
	Y   int    `toml:"y"`
	Z   int    `toml:"z"`

	// MouseEvents is a mask such as "enter|exit" or "all".
	MouseEvents string `toml:"mouse_events"`
}

// IsTurf reports whether the object is a turf.
func (o ObjectConfig) IsTurf() bool {
	return isType(o.Type, "/turf")
}

// ConnectionConfig declares one client connection.
type ConnectionConfig struct {
	ID string `toml:"id"`
	// Mob is the id of the connection's mob. Empty means none.
	Mob string `toml:"mob"`
	// Detached connections have no client object, so clicks and drops
	// from them go nowhere.
	Detached bool `toml:"detached"`
	// Sees lists the object ids the client holds references to. Empty
	// means every object.
	Sees []string `toml:"sees"`
}

// envOverrides lists the settings that can be overridden from the
// environment. Unset variables keep the value already loaded.
type envOverrides struct {
	Script    string `env:"SCRIPT"`
	Events    string `env:"EVENTS"`
	Trace     string `env:"TRACE"`
	LogLevel  string `env:"LOG_LEVEL"`
	QueueSize int    `env:"QUEUE_SIZE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Script: ScriptConfig{
			QueueSize:     1024,
			CallTimeoutMS: 2000,
		},
		Replay: ReplayConfig{
			Events: "-",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from path and the process environment.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load with an explicit environment. A nil environ reads
// the process environment.
func LoadWithEnv(path string, environ map[string]string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(environ); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults, without environment
// overrides.
func Parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(source, data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, not an error
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.decode(path, data)
}

func (c *Config) decode(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var decErr *toml.DecodeError
		if errors.As(err, &decErr) {
			perr.Line, perr.Column = decErr.Position()
		}
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			perr.Message = strictErr.String()
		}
		return perr
	}
	return nil
}

func (c *Config) applyEnv(environ map[string]string) error {
	o := envOverrides{
		Script:    c.Script.Path,
		Events:    c.Replay.Events,
		Trace:     c.Replay.Trace,
		LogLevel:  c.Logging.Level,
		QueueSize: c.Script.QueueSize,
	}
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	c.Script.Path = o.Script
	c.Replay.Events = o.Events
	c.Replay.Trace = o.Trace
	c.Logging.Level = o.LogLevel
	c.Script.QueueSize = o.QueueSize
	return nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Script.QueueSize <= 0 {
		return &ValidationError{Field: "script.queue_size", Message: "must be positive"}
	}
	if c.Script.CallTimeoutMS <= 0 {
		return &ValidationError{Field: "script.call_timeout_ms", Message: "must be positive"}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}

	objects := make(map[string]ObjectConfig, len(c.Objects))
	for i, o := range c.Objects {
		field := fmt.Sprintf("object[%d]", i)
		if o.ID == "" {
			return &ValidationError{Field: field + ".id", Message: "is required"}
		}
		if _, dup := objects[o.ID]; dup {
			return &ValidationError{Field: field + ".id", Message: fmt.Sprintf("duplicate id %q", o.ID)}
		}
		if !strings.HasPrefix(o.Type, "/") {
			return &ValidationError{Field: field + ".type", Message: fmt.Sprintf("%q is not a type path", o.Type)}
		}
		if _, err := mouse.ParseEventMask(o.MouseEvents); err != nil {
			return &ValidationError{Field: field + ".mouse_events", Message: err.Error()}
		}
		objects[o.ID] = o
	}
	for i, o := range c.Objects {
		if o.Loc == "" {
			continue
		}
		loc, ok := objects[o.Loc]
		if !ok {
			return &ValidationError{Field: fmt.Sprintf("object[%d].loc", i), Message: fmt.Sprintf("unknown object %q", o.Loc)}
		}
		if o.IsTurf() && !isType(loc.Type, "/area") {
			return &ValidationError{Field: fmt.Sprintf("object[%d].loc", i), Message: fmt.Sprintf("turf loc %q is not an area", o.Loc)}
		}
	}

	conns := make(map[string]bool, len(c.Connections))
	for i, conn := range c.Connections {
		field := fmt.Sprintf("connection[%d]", i)
		if conn.ID == "" {
			return &ValidationError{Field: field + ".id", Message: "is required"}
		}
		if conns[conn.ID] {
			return &ValidationError{Field: field + ".id", Message: fmt.Sprintf("duplicate id %q", conn.ID)}
		}
		conns[conn.ID] = true

		if conn.Mob != "" {
			mob, ok := objects[conn.Mob]
			if !ok {
				return &ValidationError{Field: field + ".mob", Message: fmt.Sprintf("unknown object %q", conn.Mob)}
			}
			if !isType(mob.Type, "/mob") {
				return &ValidationError{Field: field + ".mob", Message: fmt.Sprintf("%q is not a mob", conn.Mob)}
			}
		}
		for _, id := range conn.Sees {
			if _, ok := objects[id]; !ok {
				return &ValidationError{Field: field + ".sees", Message: fmt.Sprintf("unknown object %q", id)}
			}
		}
	}
	return nil
}

// isType reports whether typePath is root or one of its subtypes.
func isType(typePath, root string) bool {
	return typePath == root || strings.HasPrefix(typePath, root+"/")
}
