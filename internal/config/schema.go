package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
)

// OptionType represents the expected type of a configuration option value.
type OptionType string

const (
	TypeString   OptionType = "string"
	TypeBool     OptionType = "bool"
	TypeInt      OptionType = "int"
	TypeFloat    OptionType = "float"
	TypeDuration OptionType = "duration"
	TypeList     OptionType = "list"
	TypeTable    OptionType = "table"
)

// ConfigOption documents a single scenario key.
type ConfigOption struct {
	// Key is the option name within its section.
	Key  string
	Type OptionType
	// Default is the default value as a string, or "" for no default.
	Default     string
	Description string
	// Section is the TOML table the key belongs to.
	Section string
	// EnvVar is the environment variable that overrides this option, or "".
	EnvVar string

	apply func(c *Config, value string) error
}

// Path returns the dotted key path, e.g. "log.level".
func (o ConfigOption) Path() string {
	if o.Section == "" {
		return o.Key
	}
	return o.Section + "." + o.Key
}

// ConfigSchema declares the documented scenario keys.
type ConfigSchema struct {
	options   []*ConfigOption
	bySection map[string]map[string]*ConfigOption
}

// NewSchema creates a new empty ConfigSchema.
func NewSchema() *ConfigSchema {
	return &ConfigSchema{bySection: make(map[string]map[string]*ConfigOption)}
}

// Register adds a ConfigOption to the schema. Duplicate keys within the same
// section are silently overwritten (last registration wins).
func (s *ConfigSchema) Register(opt ConfigOption) {
	ref := new(ConfigOption)
	*ref = opt
	s.options = append(s.options, ref)
	if s.bySection[opt.Section] == nil {
		s.bySection[opt.Section] = make(map[string]*ConfigOption)
	}
	s.bySection[opt.Section][opt.Key] = ref
}

// RegisterAll adds multiple ConfigOptions to the schema.
func (s *ConfigSchema) RegisterAll(opts []ConfigOption) {
	for _, opt := range opts {
		s.Register(opt)
	}
}

// Lookup returns the ConfigOption for a key in a given section, or nil.
func (s *ConfigSchema) Lookup(section, key string) *ConfigOption {
	if sec, ok := s.bySection[section]; ok {
		return sec[key]
	}
	return nil
}

// SectionOptions returns all registered options for a specific section.
func (s *ConfigSchema) SectionOptions(section string) []ConfigOption {
	var out []ConfigOption
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, *o)
		}
	}
	return out
}

// Sections returns the registered section names in registration order.
func (s *ConfigSchema) Sections() []string {
	var out []string
	seen := make(map[string]bool)
	for _, o := range s.options {
		if !seen[o.Section] {
			seen[o.Section] = true
			out = append(out, o.Section)
		}
	}
	return out
}

// EnvVars returns the environment variables the schema honours, sorted.
func (s *ConfigSchema) EnvVars() []string {
	var out []string
	for _, o := range s.options {
		if o.EnvVar != "" {
			out = append(out, o.EnvVar)
		}
	}
	sort.Strings(out)
	return out
}

// ApplyEnv overrides c with every set environment variable declared by the
// schema. Unparsable values are reported as warnings and ignored.
func (s *ConfigSchema) ApplyEnv(c *Config) {
	for _, o := range s.options {
		if o.EnvVar == "" || o.apply == nil {
			continue
		}
		v, ok := os.LookupEnv(o.EnvVar)
		if !ok {
			continue
		}
		if err := o.apply(c, v); err != nil {
			c.addWarning("ignoring %s: %v", o.EnvVar, err)
		}
	}
}

// FormatHelp returns a formatted, human-readable reference of all registered
// options in the schema, grouped by section.
func (s *ConfigSchema) FormatHelp() string {
	var b strings.Builder
	for i, sec := range s.Sections() {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s]\n", sec)
		for _, o := range s.SectionOptions(sec) {
			writeOptionHelp(&b, o)
		}
	}
	return b.String()
}

func writeOptionHelp(b *strings.Builder, o ConfigOption) {
	fmt.Fprintf(b, "  %-24s %s", o.Key, o.Description)
	parts := make([]string, 0, 3)
	if o.Type != "" && o.Type != TypeString {
		parts = append(parts, fmt.Sprintf("type: %s", o.Type))
	}
	if o.Default != "" {
		parts = append(parts, fmt.Sprintf("default: %s", o.Default))
	}
	if o.EnvVar != "" {
		parts = append(parts, fmt.Sprintf("env: %s", o.EnvVar))
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// ParseLevel parses a log level name. The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// DefaultSchema returns the schema of goapsim scenarios.
func DefaultSchema() *ConfigSchema {
	s := NewSchema()
	s.RegisterAll([]ConfigOption{
		{Section: "simulation", Key: "tick", Type: TypeDuration, Default: "100ms", Description: "Simulated time per frame"},
		{Section: "simulation", Key: "duration", Type: TypeDuration, Default: "1m0s", Description: "Simulated time per run"},
		{Section: "simulation", Key: "seed", Type: TypeInt, Default: "0", Description: "Random seed, 0 for random", EnvVar: "GOAPSIM_SEED",
			apply: func(c *Config, v string) error {
				seed, err := strconv.ParseUint(v, 10, 64)
				if err != nil {
					return err
				}
				c.Simulation.Seed = seed
				return nil
			}},
		{Section: "simulation", Key: "realtime", Type: TypeBool, Default: "false", Description: "Pace frames on the wall clock"},
		{Section: "simulation", Key: "speed", Type: TypeFloat, Default: "1", Description: "Wall clock speed-up in realtime mode"},
		{Section: "simulation", Key: "report_interval", Type: TypeDuration, Default: "10s", Description: "Minimum time between progress reports, 0 to disable"},
		{Section: "simulation", Key: "stop_when_cleared", Type: TypeBool, Default: "false", Description: "End the run once every object is destroyed"},

		{Section: "room", Key: "width", Type: TypeFloat, Default: "20", Description: "Room width"},
		{Section: "room", Key: "height", Type: TypeFloat, Default: "20", Description: "Room height"},
		{Section: "room", Key: "objects", Type: TypeList, Description: "Destructible objects: name, x, y, max_hits"},

		{Section: "agent", Key: "replan_interval", Type: TypeDuration, Default: "5s", Description: "Mean period of forced replans"},
		{Section: "agent", Key: "replan_jitter", Type: TypeFloat, Default: "0.3", Description: "Fractional jitter of the replan period, negative to disable"},
		{Section: "agent", Key: "initial_delay_min", Type: TypeDuration, Default: "2s", Description: "Lower bound of the first forced replan"},
		{Section: "agent", Key: "initial_delay_max", Type: TypeDuration, Default: "4s", Description: "Upper bound of the first forced replan"},
		{Section: "agent", Key: "procedural", Default: "execution", Description: "Procedural precondition policy: execution, prefilter"},
		{Section: "agent", Key: "mode", Default: ModePlanner, Description: "Executor: planner, reactive", EnvVar: "GOAPSIM_AGENT_MODE",
			apply: func(c *Config, v string) error {
				c.Agent.Mode = v
				return nil
			}},

		{Section: "brain", Key: "enabled", Type: TypeBool, Default: "true", Description: "Let the brain override goals"},
		{Section: "brain", Key: "idle_min", Type: TypeDuration, Default: "2s", Description: "Shortest rest"},
		{Section: "brain", Key: "idle_max", Type: TypeDuration, Default: "5s", Description: "Longest rest"},
		{Section: "brain", Key: "forced_action_interval", Type: TypeDuration, Default: "10s", Description: "Time before the brain chooses again"},
		{Section: "brain", Key: "calm_min", Type: TypeDuration, Default: "5s", Description: "Shortest calm period after destroying an object"},
		{Section: "brain", Key: "calm_max", Type: TypeDuration, Default: "10s", Description: "Longest calm period after destroying an object"},
		{Section: "brain", Key: "idle_chance", Type: TypeFloat, Default: "0.4", Description: "Probability of choosing to rest"},
		{Section: "brain", Key: "walk_chance", Type: TypeFloat, Default: "0.4", Description: "Probability of choosing to wander"},

		{Section: "cats", Key: "name", Description: "Cat name, unique"},
		{Section: "cats", Key: "x", Type: TypeFloat, Description: "Start position"},
		{Section: "cats", Key: "y", Type: TypeFloat, Description: "Start position"},
		{Section: "cats", Key: "facing", Type: TypeFloat, Default: "0", Description: "Start heading in radians"},
		{Section: "cats", Key: "speed", Type: TypeFloat, Default: "3.5", Description: "Walking speed"},
		{Section: "cats", Key: "personality", Type: TypeTable, Description: "curiosity, aggression, affection multipliers (absent is 1, 0 disables the goal)"},
		{Section: "cats", Key: "actions", Type: TypeList, Default: "walk, hit_object, idle", Description: "Action tags"},
		{Section: "cats", Key: "goals", Type: TypeList, Default: "destroy_object, explore", Description: "Goal tags"},
		{Section: "cats", Key: "expr_goals", Type: TypeList, Description: "Names from [goals], default all"},
		{Section: "cats", Key: "mode", Description: "Overrides agent.mode"},
		{Section: "cats", Key: "brain", Type: TypeBool, Description: "Overrides brain.enabled"},

		{Section: "goals", Key: "<name>.desired", Type: TypeTable, Description: "Desired facts, e.g. { DestroyObject = true }"},
		{Section: "goals", Key: "<name>.priority", Description: "Priority expression"},
		{Section: "goals", Key: "<name>.achievable", Description: "Achievability expression, default true"},

		{Section: "log", Key: "level", Default: "info", Description: "Log level: debug, info, warn, error", EnvVar: "GOAPSIM_LOG_LEVEL",
			apply: func(c *Config, v string) error {
				if _, err := ParseLevel(v); err != nil {
					return err
				}
				c.Log.Level = v
				return nil
			}},
		{Section: "log", Key: "file", Description: "Log file path (JSON output)", EnvVar: "GOAPSIM_LOG_FILE",
			apply: func(c *Config, v string) error {
				c.Log.File = v
				return nil
			}},
		{Section: "log", Key: "max_size_mb", Type: TypeInt, Default: "10", Description: "Max log file size in MB before rotation"},
		{Section: "log", Key: "max_files", Type: TypeInt, Default: "5", Description: "Max number of rotated log backup files"},
		{Section: "log", Key: "format", Default: "auto", Description: "Console log format: auto, text, json"},
	})
	return s
}
