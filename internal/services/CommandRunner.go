package services

import (
	"bytes"
	"context"
	"dashcfg/internal/providers"
	"dashcfg/internal/structures"
	"errors"
	"os/exec"
	"strings"
	"time"
)

const commandTimedOut = "Command timed out"

// Result is the outcome of a device action as reported to the user.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type CommandRunnerInterface interface {
	Run(ctx context.Context, name string, args ...string) Result
}

type CommandRunner struct {
	timeout time.Duration
	logger  providers.Logger
}

func NewCommandRunner(conf *structures.Config, logger providers.Logger) CommandRunnerInterface {
	return &CommandRunner{
		timeout: conf.System.CommandTimeout,
		logger:  logger,
	}
}

// Run executes name with args (no shell) and returns combined stdout and stderr.
func (cr *CommandRunner) Run(ctx context.Context, name string, args ...string) Result {
	if cr.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cr.timeout)
		defer cancel()
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	cr.logger.Debugf(providers.TypeCommand, "%s %s (%s) err=%v", name, strings.Join(args, " "), time.Since(start), err)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		cr.logger.Warnf(providers.TypeCommand, "%s timed out after %s", name, cr.timeout)
		return Result{Success: false, Message: commandTimedOut}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{Success: false, Message: out.String()}
		}
		return Result{Success: false, Message: err.Error()}
	}

	return Result{Success: true, Message: out.String()}
}
