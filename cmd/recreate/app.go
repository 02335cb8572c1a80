package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jml312/recreate-client/internal/gateway"
	"github.com/jml312/recreate-client/internal/recipes"
	"github.com/jml312/recreate-client/internal/session"
	"github.com/jml312/recreate-client/internal/social"
	"github.com/jml312/recreate-client/internal/storage"
	"github.com/jml312/recreate-client/internal/validate"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "http://localhost:5000"

// app wires the stores together the way a UI shell would: one gateway,
// one state store, one session, shared by every command.
type app struct {
	log      *logrus.Logger
	state    *storage.StateStore
	sessions *session.Store
	recipes  *recipes.Store
	social   *social.Store
}

func newApp() (*app, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(_env("RECREATE_LOG_LEVEL", "warn")); err == nil {
		logger.SetLevel(level)
	}

	state, err := storage.NewStateStore(_stateDir(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open state directory: %w", err)
	}

	validator := validate.NewValidator()
	g := gateway.NewGateway(_env("RECREATE_BASE_URL", defaultBaseURL), state, logger)
	sessions := session.NewStore(g, state, validator, logger)
	sessions.Restore()

	return &app{
		log:      logger,
		state:    state,
		sessions: sessions,
		recipes:  recipes.NewStore(g, validator, logger),
		social:   social.NewStore(g, state, sessions, validator, logger),
	}, nil
}

func (a *app) Close() error {
	return a.state.Close()
}

func (a *app) RequireSession() error {
	if !a.sessions.Authenticated() {
		return fmt.Errorf("not logged in; run 'recreate login' first")
	}
	return nil
}

func _env(name string, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func _stateDir() string {
	if dir := os.Getenv("RECREATE_STATE_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// in-memory state; the session will not survive this process
		return ""
	}
	return filepath.Join(home, ".recreate")
}
