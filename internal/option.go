package internal

import (
	"errors"
	"io"
	"os"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	version string
	stdout  *os.File
	logOut  io.Writer
	debug   bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// WithStdout sets the file one-shot output is written to. Its terminal
// state decides the auto format and the table width.
func WithStdout(f *os.File) Option {
	return func(a *application) {
		a.stdout = f
	}
}

// WithLogOutput sets where structured logs go.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", stdout: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, errors.New("config is required")
	}
	return app, nil
}

// WithDebugLogging lowers the log level to debug so rendering traces show.
func WithDebugLogging() Option {
	return func(a *application) {
		a.debug = true
	}
}
