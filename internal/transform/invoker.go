// Package transform runs the external source-to-source transform whose
// before/after effect the fragments show.
package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"

	"git.home.luguber.info/inful/sidebyside/internal/logfields"
)

// ErrInvocationFailed indicates the transform process could not be started or
// exited with a non-zero status.
var ErrInvocationFailed = errors.New("transform invocation failed")

// waitDelay bounds how long Transform waits for the output pipes after the
// process was killed, in case something outside the process group holds them.
const waitDelay = time.Second

// Invoker produces the transformed text of the source file at path. Calls
// block until the result is available.
type Invoker interface {
	Transform(ctx context.Context, path string) (string, error)
}

// InvocationError describes a failed transform process.
type InvocationError struct {
	Path     string
	Command  []string
	ExitCode int    // -1 when the process never started or was killed
	Stderr   string // diagnostic output captured from the process
	Err      error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrInvocationFailed, e.Path)
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" (exit status %d)", e.ExitCode)
	} else if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying exec error.
func (e *InvocationError) Unwrap() []error {
	return []error{ErrInvocationFailed, e.Err}
}

// CommandInvoker spawns Command with the example path appended as the last
// argument, once per call, and returns the process's standard output.
type CommandInvoker struct {
	Command []string
	Dir     string        // working directory; the transform resolves its imports from here
	Env     []string      // extra KEY=VALUE entries on top of the process environment
	Timeout time.Duration // 0 waits forever
}

// NewCommandInvoker creates an invoker for command run inside dir.
func NewCommandInvoker(command []string, dir string) *CommandInvoker {
	return &CommandInvoker{Command: command, Dir: dir}
}

// WithTimeout bounds every invocation. Zero disables the bound.
func (c *CommandInvoker) WithTimeout(d time.Duration) *CommandInvoker {
	c.Timeout = d
	return c
}

// WithEnv adds environment entries for the child process.
func (c *CommandInvoker) WithEnv(env ...string) *CommandInvoker {
	c.Env = append(c.Env, env...)
	return c
}

func (c *CommandInvoker) Transform(ctx context.Context, path string) (string, error) {
	if len(c.Command) == 0 {
		return "", &InvocationError{Path: path, ExitCode: -1, Err: errors.New("no transform command configured")}
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, c.Command[1:]...), path)
	cmd := exec.CommandContext(ctx, c.Command[0], args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Wrapper scripts (sh -c, npx) leave grandchildren holding stdout; a
	// timeout or cancellation must take them down too.
	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	slog.Debug("Invoking transform", logfields.File(path), logfields.Command(c.Command[0]))
	start := time.Now()
	err := cmd.Run()

	if errStr := stderr.String(); errStr != "" && err == nil {
		slog.Debug("transform stderr", logfields.File(path), slog.String("error_output", errStr))
	}
	if err != nil {
		invErr := &InvocationError{
			Path:     path,
			Command:  c.Command,
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			invErr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			invErr.Err = fmt.Errorf("%w: %w", ctxErr, err)
			invErr.ExitCode = -1
		}
		return "", invErr
	}

	out, err := unicode.UTF8BOM.NewDecoder().Bytes(stdout.Bytes())
	if err != nil {
		return "", &InvocationError{Path: path, Command: c.Command, ExitCode: 0, Err: fmt.Errorf("decode output: %w", err)}
	}
	slog.Debug("Transform finished", logfields.File(path), logfields.Bytes(len(out)), logfields.Duration(time.Since(start)))
	return string(out), nil
}

// Func adapts a plain function to the Invoker interface.
type Func func(ctx context.Context, path string) (string, error)

func (f Func) Transform(ctx context.Context, path string) (string, error) { return f(ctx, path) }
