package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/covers"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/playback"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Catalog is the catalog surface the commands use. [*services.CatalogClient] implements it.
type Catalog interface {
	services.Catalog
	FetchAlbum(ctx context.Context, id string) (models.Album, error)
	Raw(ctx context.Context, endpoint, params string) (*services.APIResponse, error)
}

// Authenticator acquires the catalog credential. [*services.TokenManager] implements it.
type Authenticator interface {
	Authenticate(ctx context.Context) (models.Credential, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    Catalog
	auth       Authenticator
	backend    playback.Backend
	covers     *covers.Fetcher
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    Catalog
	Auth       Authenticator
	Backend    playback.Backend
	Covers     *covers.Fetcher
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Covers == nil {
		opts.Covers = covers.NewFetcher(opts.HTTPClient, opts.Logger)
	}
	if opts.Backend == nil {
		opts.Backend = playback.NewBeepBackend(opts.HTTPClient, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		auth:       opts.Auth,
		backend:    opts.Backend,
		covers:     opts.Covers,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		configCommand, searchCommand, albumCommand, playCommand, exportCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// connect authenticates with the catalog service. Every catalog command calls it first.
func (r *Runner) connect(ctx context.Context) error {
	if r.catalog == nil || r.auth == nil {
		return fmt.Errorf("%w: set client_id and client_secret in %s or the environment", shared.ErrMissingCredentials, r.configPathOrDefault())
	}

	cred, err := r.auth.Authenticate(ctx)
	if err != nil {
		return err
	}

	r.logger.Debug("authenticated", "token_type", cred.TokenType, "obtained_at", cred.ObtainedAt)
	return nil
}

func (r *Runner) configPathOrDefault() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}

func (r *Runner) newSession() *playback.Session {
	return playback.NewSession(playback.SessionOpts{
		Backend:      r.backend,
		TickInterval: r.config.Playback.TickInterval(),
		Logger:       r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
