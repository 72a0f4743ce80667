package internalexec

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
)

// Result captures the exit status and any output collected from a run.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// RunStreaming wires the command's stdout/stderr through to the parent
// process. Nothing is collected.
func RunStreaming(cmd *exec.Cmd) (Result, error) {
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return finish(cmd.Run(), nil, nil)
}

// RunCaptured buffers stdout and stderr in memory for later disposition.
// Writers already set on cmd also receive the output.
func RunCaptured(cmd *exec.Cmd) (Result, error) {
	var stdoutBuf, stderrBuf bytes.Buffer

	if cmd.Stdout != nil {
		cmd.Stdout = io.MultiWriter(cmd.Stdout, &stdoutBuf)
	} else {
		cmd.Stdout = &stdoutBuf
	}
	if cmd.Stderr != nil {
		cmd.Stderr = io.MultiWriter(cmd.Stderr, &stderrBuf)
	} else {
		cmd.Stderr = &stderrBuf
	}

	return finish(cmd.Run(), &stdoutBuf, &stderrBuf)
}

// finish turns a non-zero exit into a Result. Only failures to start or
// wait for the process are returned as errors.
func finish(runErr error, stdout, stderr *bytes.Buffer) (Result, error) {
	res := Result{}
	if stdout != nil {
		res.Stdout = stdout.Bytes()
	}
	if stderr != nil {
		res.Stderr = stderr.Bytes()
	}

	if runErr == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 {
			// killed by a signal
			res.ExitCode = 1
		}
		return res, nil
	}

	res.ExitCode = -1
	return res, runErr
}
