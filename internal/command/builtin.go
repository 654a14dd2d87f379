package command

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/joeycumines/go-goap/internal/config"
)

// HelpCommand displays help information for commands.
type HelpCommand struct {
	*BaseCommand
	registry *Registry
}

// NewHelpCommand creates a new help command.
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{
		BaseCommand: NewBaseCommand(
			"help",
			"Display help information for commands",
			"help [command]",
		),
		registry: registry,
	}
}

// Execute displays help information.
func (c *HelpCommand) Execute(_ context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(stdout, "goapsim - simulate goal-oriented cats in a room")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Usage: goapsim <command> [options] [args...]")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Available commands:")

		w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
		for _, name := range c.registry.List() {
			if cmd, err := c.registry.Get(name); err == nil {
				_, _ = fmt.Fprintf(w, "  %s\t%s\n", name, cmd.Description())
			}
		}
		_ = w.Flush()

		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Use 'goapsim help <command>' for more information about a specific command (includes flags).")
		return nil
	}

	cmdName := args[0]
	cmd, err := c.registry.Get(cmdName)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", cmdName)
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Command: %s\n", cmd.Name())
	_, _ = fmt.Fprintf(stdout, "Description: %s\n", cmd.Description())
	_, _ = fmt.Fprintf(stdout, "Usage: goapsim %s\n", cmd.Usage())

	// Show command-specific flags (if any) by invoking SetupFlags on a temporary FlagSet
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	buf := &bytes.Buffer{}
	fs.SetOutput(buf)
	cmd.SetupFlags(fs)
	fs.PrintDefaults()
	if buf.Len() > 0 {
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Flags:")
		_, _ = fmt.Fprint(stdout, buf.String())
	}
	return nil
}

// VersionCommand displays version information.
type VersionCommand struct {
	*BaseCommand
	version string
}

// NewVersionCommand creates a new version command.
func NewVersionCommand(version string) *VersionCommand {
	return &VersionCommand{
		BaseCommand: NewBaseCommand(
			"version",
			"Display version information",
			"version",
		),
		version: version,
	}
}

// Execute displays version information.
func (c *VersionCommand) Execute(_ context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	_, _ = fmt.Fprintf(stdout, "goapsim version %s\n", c.version)
	return nil
}

// ConfigCommand prints the effective scenario configuration.
type ConfigCommand struct {
	*BaseCommand
	schema   bool
	validate bool
	write    string
}

// NewConfigCommand creates a new config command.
func NewConfigCommand() *ConfigCommand {
	return &ConfigCommand{
		BaseCommand: NewBaseCommand(
			"config",
			"Print the effective scenario configuration",
			"config [options] [scenario.toml]",
		),
	}
}

// SetupFlags configures the flags for the config command.
func (c *ConfigCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.schema, "schema", false, "Show the documented scenario keys instead")
	fs.BoolVar(&c.validate, "validate", false, "Only validate the scenario")
	fs.StringVar(&c.write, "write", "", "Write the effective scenario to this path")
}

// Execute prints, validates or writes the scenario.
func (c *ConfigCommand) Execute(_ context.Context, args []string, stdout, stderr io.Writer) error {
	if c.schema {
		_, _ = fmt.Fprint(stdout, config.DefaultSchema().FormatHelp())
		return nil
	}
	if len(args) > 1 {
		_, _ = fmt.Fprintln(stderr, "Invalid number of arguments")
		return fmt.Errorf("invalid arguments")
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	cfg, err := loadScenario(path)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		if c.validate && errors.Is(err, config.ErrInvalid) {
			_, _ = fmt.Fprintf(stdout, "Configuration is invalid:\n%v\n", err)
		}
		return err
	}
	if c.validate {
		if len(cfg.Warnings) == 0 {
			_, _ = fmt.Fprintln(stdout, "Configuration is valid.")
			return nil
		}
		_, _ = fmt.Fprintf(stdout, "Configuration is valid with %d warning(s):\n", len(cfg.Warnings))
		for _, w := range cfg.Warnings {
			_, _ = fmt.Fprintf(stdout, "  - %s\n", w)
		}
		return nil
	}

	if c.write != "" {
		if err := cfg.WriteFile(c.write); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "Wrote configuration to %s\n", c.write)
		return nil
	}
	return cfg.Write(stdout)
}

// loadScenario loads path, or the default scenario path when path is empty,
// and applies environment overrides.
func loadScenario(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(path)
	}
	if err != nil {
		return nil, err
	}
	config.DefaultSchema().ApplyEnv(cfg)
	return cfg, nil
}
