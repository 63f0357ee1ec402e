package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/marquee-app/marquee/internal/api"
	"github.com/marquee-app/marquee/internal/config"
	"github.com/marquee-app/marquee/internal/logger"
	"github.com/marquee-app/marquee/internal/notify"
	"github.com/marquee-app/marquee/internal/session"
	"github.com/marquee-app/marquee/internal/storage"
)

// App is everything a command needs once configuration is loaded
type App struct {
	Config  *config.Config
	Session *session.Accessor
	Client  *api.Client
	Logger  zerolog.Logger
}

// Env carries command output and the lazy App loader.
// Commands that need no configuration (version, routes) never call Load.
type Env struct {
	Out  io.Writer
	In   io.Reader
	Load func(out io.Writer) (*App, error)
}

// DefaultEnv wires commands to the real configuration, storage and API
func DefaultEnv() *Env {
	return &Env{
		Out:  os.Stdout,
		In:   os.Stdin,
		Load: LoadApp,
	}
}

func (e *Env) app() (*App, error) {
	return e.Load(e.Out)
}

// LoadApp loads configuration and opens the configured local storage.
// Notifications from the shared notifier are printed to out.
func LoadApp(out io.Writer) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w\nSet API_BASE_URL (or add it to .env)", err)
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, "console")

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path, cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	return NewApp(cfg, store, out, log)
}

// NewApp assembles an App over an already opened store
func NewApp(cfg *config.Config, store storage.Store, out io.Writer, log zerolog.Logger) (*App, error) {
	accessor := session.NewAccessor(store, log)

	client, err := api.New(cfg.API.BaseURL, accessor,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	client.Notifier().Subscribe(notify.NewWriterSink(out))

	return &App{
		Config:  cfg,
		Session: accessor,
		Client:  client,
		Logger:  log,
	}, nil
}
