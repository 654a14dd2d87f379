// Package config loads goapsim scenario files.
//
// Scenarios are TOML documents. Every key is optional: NewConfig supplies a
// small default scenario, and values present in the file override it.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("config: invalid scenario")

// Duration is a time.Duration written as a Go duration string, e.g. "1.5s".
type Duration time.Duration

// D returns the value as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is a scenario.
type Config struct {
	Simulation SimulationConfig      `toml:"simulation"`
	Room       RoomConfig            `toml:"room"`
	Agent      AgentConfig           `toml:"agent"`
	Brain      BrainConfig           `toml:"brain"`
	Cats       []CatConfig           `toml:"cats"`
	Goals      map[string]GoalConfig `toml:"goals,omitempty"`
	Log        LogConfig             `toml:"log"`

	// Warnings contains any warnings generated during loading and validation.
	Warnings []string `toml:"-"`
}

// SimulationConfig controls the frame loop.
type SimulationConfig struct {
	// Tick is the simulated time advanced per frame.
	Tick     Duration `toml:"tick"`
	Duration Duration `toml:"duration"`
	// Seed makes a run reproducible. Zero picks a random seed.
	Seed uint64 `toml:"seed"`
	// Realtime paces frames on a wall clock ticker, scaled by Speed.
	Realtime bool    `toml:"realtime"`
	Speed    float64 `toml:"speed"`
	// ReportInterval throttles progress reports. Zero disables them.
	ReportInterval Duration `toml:"report_interval"`
	// StopWhenCleared ends the run once every object is destroyed.
	StopWhenCleared bool `toml:"stop_when_cleared"`
}

// RoomConfig describes the room and its objects.
type RoomConfig struct {
	Width   float64        `toml:"width"`
	Height  float64        `toml:"height"`
	Objects []ObjectConfig `toml:"objects"`
}

// ObjectConfig describes a destructible object.
type ObjectConfig struct {
	Name string  `toml:"name"`
	X    float64 `toml:"x"`
	Y    float64 `toml:"y"`
	// MaxHits defaults to 3.
	MaxHits int `toml:"max_hits,omitempty"`
}

// AgentConfig holds the agent settings shared by every cat.
type AgentConfig struct {
	ReplanInterval  Duration `toml:"replan_interval"`
	ReplanJitter    float64  `toml:"replan_jitter"`
	InitialDelayMin Duration `toml:"initial_delay_min"`
	InitialDelayMax Duration `toml:"initial_delay_max"`
	// Procedural is "execution" or "prefilter".
	Procedural string `toml:"procedural"`
	// Mode is "planner" or "reactive".
	Mode string `toml:"mode"`
}

// BrainConfig holds the restless-cat override settings.
type BrainConfig struct {
	Enabled              bool     `toml:"enabled"`
	IdleMin              Duration `toml:"idle_min"`
	IdleMax              Duration `toml:"idle_max"`
	ForcedActionInterval Duration `toml:"forced_action_interval"`
	CalmMin              Duration `toml:"calm_min"`
	CalmMax              Duration `toml:"calm_max"`
	IdleChance           float64  `toml:"idle_chance"`
	WalkChance           float64  `toml:"walk_chance"`
}

// PersonalityConfig scales goal priorities. An absent multiplier is 1;
// zero disables the goal it scales.
type PersonalityConfig struct {
	Curiosity  *float64 `toml:"curiosity,omitempty"`
	Aggression *float64 `toml:"aggression,omitempty"`
	Affection  *float64 `toml:"affection,omitempty"`
}

// Multipliers returns the curiosity, aggression and affection multipliers,
// defaulting absent ones to 1.
func (p PersonalityConfig) Multipliers() (curiosity, aggression, affection float64) {
	orOne := func(v *float64) float64 {
		if v == nil {
			return 1
		}
		return *v
	}
	return orOne(p.Curiosity), orOne(p.Aggression), orOne(p.Affection)
}

// CatConfig describes one cat.
type CatConfig struct {
	Name   string  `toml:"name"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Facing float64 `toml:"facing,omitempty"`
	// Speed overrides the default walking speed when positive.
	Speed       float64           `toml:"speed,omitempty"`
	Personality PersonalityConfig `toml:"personality,omitempty"`
	// Actions and Goals are registry tags; empty selects the defaults.
	Actions []string `toml:"actions,omitempty"`
	Goals   []string `toml:"goals,omitempty"`
	// ExprGoals names entries of the [goals] table to add to this cat.
	// Empty adds every entry.
	ExprGoals []string `toml:"expr_goals,omitempty"`
	// Mode overrides agent.mode.
	Mode string `toml:"mode,omitempty"`
	// Brain overrides brain.enabled.
	Brain *bool `toml:"brain,omitempty"`
}

// GoalConfig declares a goal by expressions over the cat's environment.
type GoalConfig struct {
	Desired    map[string]bool `toml:"desired"`
	Priority   string          `toml:"priority"`
	Achievable string          `toml:"achievable,omitempty"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`
	// File enables rotated JSON file output.
	File      string `toml:"file,omitempty"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
	// Format is auto, text or json.
	Format string `toml:"format"`
}

// Agent modes.
const (
	ModePlanner  = "planner"
	ModeReactive = "reactive"
)

// NewConfig returns the default scenario: one cat in a furnished room.
func NewConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Tick:           Duration(100 * time.Millisecond),
			Duration:       Duration(60 * time.Second),
			Speed:          1,
			ReportInterval: Duration(10 * time.Second),
		},
		Room: RoomConfig{
			Width:   20,
			Height:  20,
			Objects: defaultObjects(),
		},
		Agent: AgentConfig{
			ReplanInterval:  Duration(5 * time.Second),
			ReplanJitter:    0.3,
			InitialDelayMin: Duration(2 * time.Second),
			InitialDelayMax: Duration(4 * time.Second),
			Procedural:      "execution",
			Mode:            ModePlanner,
		},
		Brain: BrainConfig{
			Enabled:              true,
			IdleMin:              Duration(2 * time.Second),
			IdleMax:              Duration(5 * time.Second),
			ForcedActionInterval: Duration(10 * time.Second),
			CalmMin:              Duration(5 * time.Second),
			CalmMax:              Duration(10 * time.Second),
			IdleChance:           0.4,
			WalkChance:           0.4,
		},
		Cats: defaultCats(),
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
			Format:    "auto",
		},
		Warnings: make([]string, 0),
	}
}

func defaultObjects() []ObjectConfig {
	return []ObjectConfig{
		{Name: "vase", X: 5, Y: 5},
		{Name: "lamp", X: 15, Y: 4},
		{Name: "plant", X: 10, Y: 16},
	}
}

func defaultCats() []CatConfig {
	return []CatConfig{{Name: "tom", X: 10, Y: 10}}
}

// LoadFromPath loads a scenario file. A missing file yields the default
// scenario.
//
// Symlinks are rejected to prevent reading arbitrary files through a
// substituted config path.
func LoadFromPath(path string) (*Config, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlink not allowed in config path: %s", path)
	}

	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader decodes a scenario over the defaults. Arrays replace the
// default arrays entirely. Keys the scenario does not define are reported as
// warnings.
func LoadFromReader(r io.Reader) (*Config, error) {
	config := NewConfig()
	config.Room.Objects = nil
	config.Cats = nil
	md, err := toml.NewDecoder(r).Decode(config)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	if !md.IsDefined("room", "objects") {
		config.Room.Objects = defaultObjects()
	}
	if !md.IsDefined("cats") {
		config.Cats = defaultCats()
	}
	for _, key := range md.Undecoded() {
		config.addWarning("unknown option: %s", key)
	}
	return config, nil
}

// addWarning adds a warning to the config's warnings list.
func (c *Config) addWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Warnings = append(c.Warnings, msg)
	slog.Warn("[Config] " + msg)
}

// HasWarnings returns true if there are any warnings.
func (c *Config) HasWarnings() bool {
	return len(c.Warnings) > 0
}

// CatMode returns the agent mode of cat.
func (c *Config) CatMode(cat CatConfig) string {
	if cat.Mode != "" {
		return strings.ToLower(cat.Mode)
	}
	return strings.ToLower(c.Agent.Mode)
}

// CatBrain reports whether cat runs with a brain.
func (c *Config) CatBrain(cat CatConfig) bool {
	if cat.Brain != nil {
		return *cat.Brain
	}
	return c.Brain.Enabled
}

// CatExprGoals returns the names of the expression goals of cat, sorted.
func (c *Config) CatExprGoals(cat CatConfig) []string {
	if len(cat.ExprGoals) > 0 {
		return cat.ExprGoals
	}
	return sortedKeys(c.Goals)
}
