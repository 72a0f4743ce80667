package runner

import (
	"context"

	"github.com/alexisbeaulieu97/eetest/internal/command"
	"github.com/alexisbeaulieu97/eetest/internal/internalexec"
)

// Executor runs one target command to completion.
type Executor interface {
	// Execute blocks until cmd exits. A non-zero exit is reported through the
	// result; an error means the process could not be run at all.
	Execute(ctx context.Context, cmd command.Command, interactive bool) (internalexec.Result, error)
}

// ProcessExecutor runs commands as child processes.
type ProcessExecutor struct{}

// Execute streams output to the terminal when interactive, otherwise captures it.
func (ProcessExecutor) Execute(ctx context.Context, cmd command.Command, interactive bool) (internalexec.Result, error) {
	proc := cmd.Exec(ctx)
	if interactive {
		return internalexec.RunStreaming(proc)
	}
	return internalexec.RunCaptured(proc)
}
