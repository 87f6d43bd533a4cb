// Package config provides configuration loading and access for the effect
// runtime.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all runtime configuration parameters.
type Config struct {
	Simulation SimulationConfig   `yaml:"simulation"`
	Camera     CameraConfig       `yaml:"camera"`
	Globals    map[string]float64 `yaml:"globals"`
	Telemetry  TelemetryConfig    `yaml:"telemetry"`
	Effects    []EffectConfig     `yaml:"effects"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds frame stepping and scheduling parameters.
type SimulationConfig struct {
	DT                float64 `yaml:"dt"`                 // Seconds per frame
	Seed              int64   `yaml:"seed"`               // Base chaos seed (0 = time-based, chosen by the caller)
	Workers           int     `yaml:"workers"`            // Worker goroutines (0 = GOMAXPROCS)
	ParallelThreshold int     `yaml:"parallel_threshold"` // Min groups in a range before it is split across workers
	BlockGroups       int     `yaml:"block_groups"`       // Groups per work block; fixes chaos partitions independently of worker count
	Gravity           float64 `yaml:"gravity"`            // Downward acceleration applied during integration
}

// CameraConfig holds the camera used by view-dependent domains.
type CameraConfig struct {
	Position   [3]float64 `yaml:"position"`
	Target     [3]float64 `yaml:"target"`
	OrbitSpeed float64    `yaml:"orbit_speed"` // Radians per second around the target (0 = fixed)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsInterval int `yaml:"stats_interval"` // Frames between stats rows
	PerfWindow    int `yaml:"perf_window"`    // Frames averaged by the perf collector
}

// EffectConfig describes one emitter runtime.
type EffectConfig struct {
	Name       string             `yaml:"name"`
	Parent     string             `yaml:"parent"` // Parent effect name; children spawn one instance per parent particle
	Spawn      SpawnConfig        `yaml:"spawn"`
	Attributes map[string]float64 `yaml:"attributes"`
	Modifiers  []ModifierConfig   `yaml:"modifiers"`
}

// SpawnConfig controls particle emission.
type SpawnConfig struct {
	Rate     float64 `yaml:"rate"`      // Particles per second per instance
	LifeTime float64 `yaml:"life_time"` // Seconds
	Speed    float64 `yaml:"speed"`     // Initial speed
	Spread   float64 `yaml:"spread"`    // Cone half-angle in radians around +Y
}

// ModifierConfig is the authored form of a sampling modifier.
// String fields are parsed by the effect package.
type ModifierConfig struct {
	Name             string   `yaml:"name"`
	Target           string   `yaml:"target"`            // Destination float stream
	Domain           string   `yaml:"domain"`            // global, attribute, random, spawn_id, view_angle, camera_distance, speed, age, stream
	Global           string   `yaml:"global"`            // level_time, time_of_day, wind_speed, exposure
	Owner            string   `yaml:"owner"`             // self or parent
	Attribute        string   `yaml:"attribute"`         // Attribute name for the attribute domain
	AttributeDefault float64  `yaml:"attribute_default"` // Value used when the attribute is missing
	Modulus          uint32   `yaml:"modulus"`           // Spawn id ramp period
	Stream           string   `yaml:"stream"`            // Source stream for the stream domain
	Stage            string   `yaml:"stage"`             // init (new particles only) or update (every frame)
	Op               string   `yaml:"op"`                // set, scale, add, lerp
	Gain             *float64 `yaml:"gain,omitempty"`    // Omitted means 1
	Bias             float64  `yaml:"bias"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32        float32        // Simulation.DT as float32
	EffectIndex map[string]int // name -> index into Effects
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file.
		// Lists such as effects are replaced, not merged.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()
	return cfg, nil
}

// Parse loads configuration from YAML bytes merged over the embedded defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate checks structural constraints. Modifier fields are parsed and
// checked when effects are built.
func (c *Config) Validate() error {
	if c.Simulation.DT <= 0 {
		return fmt.Errorf("simulation.dt must be positive, got %v", c.Simulation.DT)
	}

	seen := make(map[string]bool, len(c.Effects))
	for i, e := range c.Effects {
		if e.Name == "" {
			return fmt.Errorf("effects[%d]: missing name", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("effect %q: duplicate name", e.Name)
		}
		if e.Parent != "" && !seen[e.Parent] {
			return fmt.Errorf("effect %q: parent %q must be declared before it", e.Name, e.Parent)
		}
		if e.Spawn.LifeTime <= 0 {
			return fmt.Errorf("effect %q: spawn.life_time must be positive", e.Name)
		}
		if e.Spawn.Rate < 0 {
			return fmt.Errorf("effect %q: spawn.rate must not be negative", e.Name)
		}
		for j, m := range e.Modifiers {
			if m.Target == "" {
				return fmt.Errorf("effect %q: modifiers[%d]: missing target", e.Name, j)
			}
			if m.Domain == "" {
				return fmt.Errorf("effect %q: modifiers[%d]: missing domain", e.Name, j)
			}
		}
		seen[e.Name] = true
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)

	if c.Simulation.BlockGroups <= 0 {
		c.Simulation.BlockGroups = 64
	}
	if c.Telemetry.StatsInterval <= 0 {
		c.Telemetry.StatsInterval = 60
	}

	for i := range c.Effects {
		for j := range c.Effects[i].Modifiers {
			m := &c.Effects[i].Modifiers[j]
			if m.Name == "" {
				m.Name = fmt.Sprintf("%s_%s", m.Target, m.Domain)
			}
			if m.Op == "" {
				m.Op = "set"
			}
			if m.Stage == "" {
				m.Stage = "update"
			}
			if m.Gain == nil {
				m.Gain = new(float64)
				*m.Gain = 1
			}
		}
	}

	c.Derived.EffectIndex = make(map[string]int, len(c.Effects))
	for i, e := range c.Effects {
		c.Derived.EffectIndex[e.Name] = i
	}
}

// Effect returns the named effect configuration.
func (c *Config) Effect(name string) (*EffectConfig, bool) {
	i, ok := c.Derived.EffectIndex[name]
	if !ok {
		return nil, false
	}
	return &c.Effects[i], true
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
