package command

import (
	"context"
	"os/exec"

	"github.com/kballard/go-shellquote"
)

// Command is a program and its argument vector.
type Command struct {
	Program string
	Args    []string
}

// Argv returns the program followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Program}, c.Args...)
}

// String renders the invocation as a shell-quoted line for display.
func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}

// Exec prepares the command for dispatch without going through a shell.
func (c Command) Exec(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, c.Program, c.Args...)
}

// Mount binds a host path into a container.
type Mount struct {
	Source  string
	Target  string
	Options string
}

func (m Mount) String() string {
	s := m.Source + ":" + m.Target
	if m.Options != "" {
		s += ":" + m.Options
	}
	return s
}

// EnvVar is one environment assignment destined for the execution environment.
type EnvVar struct {
	Key   string
	Value string
}

func (e EnvVar) String() string {
	return e.Key + "=" + e.Value
}
