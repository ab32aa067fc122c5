package clientkit

import (
	"context"
	"log/slog"

	"github.com/theraflow/clientkit/pkg/apigw"
	"github.com/theraflow/clientkit/pkg/config"
	"github.com/theraflow/clientkit/pkg/kvstore"
	"github.com/theraflow/clientkit/pkg/logger"
	"github.com/theraflow/clientkit/pkg/sessionmgr"
)

// Config aggregates the configuration of every subsystem. Populate it from
// the environment with LoadConfig, or construct it directly in tests.
type Config struct {
	Storage kvstore.Config
	API     apigw.Config
	Session sessionmgr.Config
}

// LoadConfig reads every subsystem's configuration from environment
// variables (and an optional .env file).
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg.Storage); err != nil {
		return Config{}, err
	}
	if err := config.Load(&cfg.API); err != nil {
		return Config{}, err
	}
	if err := config.Load(&cfg.Session); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Client bundles the wired subsystems: fail-soft storage, the classifying
// API gateway and the session manager. Construct one per process.
type Client struct {
	Log      *slog.Logger
	Store    kvstore.Store
	Gateway  *apigw.Client
	Sessions *sessionmgr.Manager
}

// Option configures the composed client.
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger sets the logger shared by every subsystem.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// New wires the full client stack: storage tier selection happens once,
// the gateway reads and purges session keys through the fail-soft store,
// and the session manager starts in its bootstrapping state. Callers run
// client.Sessions.Bootstrap(ctx) before routing any UI.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	o := &options{log: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	store := kvstore.NewFailSoft(kvstore.Resolve(ctx, cfg.Storage, o.log), o.log)

	gw, err := apigw.New(cfg.API, store, apigw.WithLogger(o.log))
	if err != nil {
		return nil, err
	}

	sessions, err := sessionmgr.New(store, gw,
		sessionmgr.WithLogger(o.log),
		sessionmgr.WithConfig(cfg.Session),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		Log:      o.log,
		Store:    store,
		Gateway:  gw,
		Sessions: sessions,
	}, nil
}
