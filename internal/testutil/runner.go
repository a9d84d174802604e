package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	lerrors "github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/shell"
)

// Response is a canned reply for a fake command.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// FakeRunner is a shell.Runner that never executes anything. Commands are
// answered by the first registered handler whose key prefixes the joined
// command line ("xcrun notarytool submit" matches "xcrun notarytool submit app.zip ...").
type FakeRunner struct {
	mu       sync.Mutex
	handlers []fakeHandler
	missing  map[string]bool
	calls    []shell.Command
}

type fakeHandler struct {
	prefix string
	fn     func(cmd shell.Command) Response
}

// NewFakeRunner returns an empty FakeRunner; unconfigured commands fail with
// ErrCommandNotConfigured.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{missing: map[string]bool{}}
}

// On answers every command whose line starts with prefix with resp.
func (f *FakeRunner) On(prefix string, resp Response) *FakeRunner {
	return f.OnFunc(prefix, func(shell.Command) Response { return resp })
}

// OnSequence answers successive matching commands with the given responses,
// repeating the last one once exhausted.
func (f *FakeRunner) OnSequence(prefix string, resps ...Response) *FakeRunner {
	var n int
	return f.OnFunc(prefix, func(shell.Command) Response {
		i := n
		if i >= len(resps) {
			i = len(resps) - 1
		}
		n++
		return resps[i]
	})
}

// OnFunc answers matching commands with fn.
func (f *FakeRunner) OnFunc(prefix string, fn func(cmd shell.Command) Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, fakeHandler{prefix: prefix, fn: fn})
	return f
}

// Missing marks tools that LookPath and Run report as not installed.
func (f *FakeRunner) Missing(names ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.missing[n] = true
	}
	return f
}

// LookPath implements shell.Runner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[name] {
		return "", fmt.Errorf("%s: %w", name, lerrors.ErrToolNotFound)
	}
	return "/usr/bin/" + name, nil
}

// Run implements shell.Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd shell.Command) (*shell.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	missing := f.missing[cmd.Name]
	line := Line(cmd)
	var handler *fakeHandler
	for i := range f.handlers {
		if strings.HasPrefix(line, f.handlers[i].prefix) {
			handler = &f.handlers[i]
			break
		}
	}
	f.mu.Unlock()

	if missing {
		return &shell.Result{Command: line, ExitCode: -1}, fmt.Errorf("%s: %w", cmd.Name, lerrors.ErrToolNotFound)
	}
	if handler == nil {
		return nil, fmt.Errorf("%s: %w", line, lerrors.ErrCommandNotConfigured)
	}

	resp := handler.fn(cmd)
	result := &shell.Result{Command: line, Stdout: resp.Stdout, Stderr: resp.Stderr, ExitCode: resp.ExitCode}
	if resp.Err != nil {
		return result, resp.Err
	}
	if resp.ExitCode != 0 {
		return result, fmt.Errorf("%s exited with code %d: %w", cmd.Name, resp.ExitCode, lerrors.ErrCommandFailed)
	}
	return result, nil
}

// Calls returns every command passed to Run.
func (f *FakeRunner) Calls() []shell.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]shell.Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many Run calls matched prefix.
func (f *FakeRunner) CallCount(prefix string) int {
	var n int
	for _, c := range f.Calls() {
		if strings.HasPrefix(Line(c), prefix) {
			n++
		}
	}
	return n
}

// Line joins a command's name and arguments with spaces, unredacted.
func Line(cmd shell.Command) string {
	return strings.Join(append([]string{cmd.Name}, cmd.Args...), " ")
}

var _ shell.Runner = (*FakeRunner)(nil)
