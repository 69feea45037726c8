package internal

import (
	"io"

	"github.com/starford/ansuz/internal/dispatch"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	logOutput io.Writer

	dispatcher    dispatch.Dispatcher
	dispatcherSet bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogOutput sets where structured logs are written. Defaults to stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

// WithDispatcher overrides the dispatcher chosen from the capture config.
// A nil dispatcher only prints generated links.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(a *application) {
		a.dispatcher = d
		a.dispatcherSet = true
	}
}
