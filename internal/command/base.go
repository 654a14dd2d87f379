// Package command implements the goapsim subcommands: run and plan drive
// scenarios, config inspects them, and help and version describe the binary.
package command

import (
	"context"
	"flag"
	"io"
)

// Command is one goapsim subcommand. The dispatcher gives each command its
// own FlagSet, parses the arguments that follow the command name into it, and
// passes the remaining positional arguments (usually scenario files) to
// Execute.
type Command interface {
	Name() string
	// Description is the one-line summary shown by goapsim help.
	Description() string
	// Usage is the synopsis, for example "goapsim run [options] [scenario.toml...]".
	Usage() string
	SetupFlags(fs *flag.FlagSet)
	// Execute writes reports to stdout and diagnostics to stderr. ctx is
	// cancelled on interrupt, which stops running simulations.
	Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error
}

// BaseCommand carries the name, summary and synopsis of a subcommand.
// Commands embed it and add flags and Execute.
type BaseCommand struct {
	name, description, usage string
}

func NewBaseCommand(name, description, usage string) *BaseCommand {
	return &BaseCommand{name: name, description: description, usage: usage}
}

func (c *BaseCommand) Name() string        { return c.name }
func (c *BaseCommand) Description() string { return c.description }
func (c *BaseCommand) Usage() string       { return c.usage }

// SetupFlags registers nothing; commands with flags override it.
func (c *BaseCommand) SetupFlags(*flag.FlagSet) {}
