package testutil

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/driverinstall/pkg/runner"
)

// Call is one recorded process invocation.
type Call struct {
	Name string
	Args []string
}

// Response is a scripted outcome for a command.
type Response struct {
	Result runner.Result
	Err    error
}

// FakeRunner returns scripted results instead of starting processes.
// Lookup order: Handler, Responses by full name, Responses by base name.
// Unscripted commands fail to start.
type FakeRunner struct {
	Handler   func(name string, args []string) (runner.Result, error)
	Responses map[string]Response
	Calls     []Call
}

// NewFakeRunner creates a runner with no scripted responses.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Responses: make(map[string]Response)}
}

// On scripts the result for name (full path or base name).
func (f *FakeRunner) On(name string, status int, output string) *FakeRunner {
	f.Responses[name] = Response{Result: runner.Result{ExitStatus: status, Output: output}}
	return f
}

// OnError scripts a start failure for name.
func (f *FakeRunner) OnError(name string, err error) *FakeRunner {
	f.Responses[name] = Response{Err: err}
	return f
}

func (f *FakeRunner) Run(name string, args ...string) (runner.Result, error) {
	f.Calls = append(f.Calls, Call{Name: name, Args: append([]string(nil), args...)})

	if f.Handler != nil {
		return f.Handler(name, args)
	}
	if resp, ok := f.Responses[name]; ok {
		return resp.Result, resp.Err
	}
	if resp, ok := f.Responses[filepath.Base(name)]; ok {
		return resp.Result, resp.Err
	}
	return runner.Result{}, fmt.Errorf("exec: %q: no scripted response", name)
}

// CallsTo returns the recorded calls whose base name is name.
func (f *FakeRunner) CallsTo(name string) []Call {
	var calls []Call
	for _, c := range f.Calls {
		if filepath.Base(c.Name) == name {
			calls = append(calls, c)
		}
	}
	return calls
}
