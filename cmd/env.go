package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/netmatch/internal/backend"
	"github.com/spigell/netmatch/internal/logger"
	"github.com/spigell/netmatch/internal/session"
)

// env holds what every view needs: config, logger, gateway and session.
type env struct {
	config  *Config
	logger  *zap.Logger
	client  *backend.Client
	session *session.Session
	closer  io.Closer
}

// runView builds the env, runs fn and releases the env before exiting 1 on failure.
func runView(view string, fn func(ctx context.Context, e *env) error) {
	ctx := context.Background()

	base, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	e, err := setup(ctx, base, view)
	if err != nil {
		base.Error("setting up", zap.Error(err), zap.String("view", view))
		_ = base.Sync()
		os.Exit(1)
	}

	err = fn(ctx, e)
	if err != nil {
		e.logger.Error(view+" failed", zap.Error(err))
	}

	e.Close()

	if err != nil {
		os.Exit(1)
	}
}

func setup(ctx context.Context, base *zap.Logger, view string) (*env, error) {
	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	l := logger.ForView(base, view, config.APIURL)
	l.Debug("starting the netmatch", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	client := backend.New(l, config.APIURL, config.Timeout)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	store, closer, err := session.Open(ctx, config.Session.Backend, config.Session.Path, app)
	if err != nil {
		return nil, fmt.Errorf("opening the %q session store: %w", config.Session.Backend, err)
	}

	return &env{
		config:  config,
		logger:  l,
		client:  client,
		session: session.New(store, l),
		closer:  closer,
	}, nil
}

func (e *env) Close() {
	if err := e.closer.Close(); err != nil {
		e.logger.Warn("closing the session store", zap.Error(err))
	}
	_ = e.logger.Sync()
}

// dropSessionOn clears the stored token when the backend says the session holds no connections.
// It reports whether that happened.
func (e *env) dropSessionOn(ctx context.Context, err error) bool {
	if !backend.IsNoConnections(err) {
		return false
	}

	e.logger.Info("backend has no connections for the session, clearing it", zap.String("reason", backend.Message(err)))
	if clearErr := e.session.Clear(ctx); clearErr != nil {
		e.logger.Warn("clearing the session", zap.Error(clearErr))
	}

	return true
}

// activeToken returns the stored token or renders the empty state and returns "".
func (e *env) activeToken(ctx context.Context) string {
	token := e.session.Token(ctx)
	if token == "" {
		renderNoSession()
	}
	return token
}
