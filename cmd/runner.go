package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotlists/internal/services"
	"github.com/desertthunder/spotlists/internal/shared"
	"github.com/urfave/cli/v3"
)

// authTimeout bounds how long browse waits for the browser callback.
const authTimeout = 2 * time.Minute

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	status      io.Writer
	openBrowser func(url string) error
	authTimeout time.Duration
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config makes every command resolve the configuration from its --config flag.
// Status receives progress messages and defaults to stderr so Output carries command data only.
type RunnerOpts struct {
	Config      *shared.Config
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	Status      io.Writer
	OpenBrowser func(url string) error
	AuthTimeout time.Duration
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Status == nil {
		opts.Status = os.Stderr
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.AuthTimeout <= 0 {
		opts.AuthTimeout = authTimeout
	}

	return &Runner{
		config:      opts.Config,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		status:      opts.Status,
		openBrowser: opts.OpenBrowser,
		authTimeout: opts.AuthTimeout,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, browseCommand, exportCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig returns the injected configuration or resolves the one named by --config,
// then applies its log level.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	config := r.config
	if config == nil {
		var err error
		if config, err = shared.ResolveConfig(cmd.String("config")); err != nil {
			return nil, err
		}
	}

	if err := shared.SetLogLevel(r.logger, config.Log.Level); err != nil {
		return nil, err
	}

	return config, nil
}

// client returns the outbound HTTP client, honoring the configured timeout.
func (r *Runner) client(config *shared.Config) *http.Client {
	if r.httpClient != nil {
		return r.httpClient
	}
	return services.NewHTTPClient(config.Server.HTTPTimeout.Duration)
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeStatus reports progress on the status writer, never on the data output.
func (r *Runner) writeStatus(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.status, format, args...); err != nil {
		return fmt.Errorf("failed to write status: %w", err)
	}
	return nil
}
