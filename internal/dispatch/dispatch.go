// Package dispatch hands a generated deep link to something outside the
// process: the OS URL handler or the clipboard.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// Dispatcher delivers a deep-link URI.
type Dispatcher interface {
	Dispatch(ctx context.Context, uri string) error
}

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Opener passes URIs to the operating system's default handler.
type Opener struct {
	goos string
	run  Runner
}

// NewOpener returns an Opener for the running OS.
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, run: execRunner}
}

// NewOpenerWith returns an Opener for goos that executes commands through run.
func NewOpenerWith(goos string, run Runner) *Opener {
	return &Opener{goos: goos, run: run}
}

// Dispatch opens uri with open, rundll32, or xdg-open depending on the OS.
func (o *Opener) Dispatch(ctx context.Context, uri string) error {
	name, args := openCommand(o.goos, uri)
	if err := o.run(ctx, name, args...); err != nil {
		return fmt.Errorf("dispatch: %s: %w", name, err)
	}
	return nil
}

func openCommand(goos, uri string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{uri}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", uri}
	default:
		return "xdg-open", []string{uri}
	}
}

// Clipboard copies URIs to the system clipboard.
type Clipboard struct{}

func (Clipboard) Dispatch(_ context.Context, uri string) error {
	if err := clipboard.WriteAll(uri); err != nil {
		return fmt.Errorf("dispatch: clipboard: %w", err)
	}
	return nil
}

// Multi dispatches to every member and joins their errors.
type Multi []Dispatcher

func (m Multi) Dispatch(ctx context.Context, uri string) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(ctx, uri); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
