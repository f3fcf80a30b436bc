// Package session keeps the single token that ties this client to the
// connections uploaded to the backend.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Key is the name the token is persisted under.
const Key = "sessionId"

var ErrEmptyToken = errors.New("session token must not be empty")

// Store persists the token. Get returns "" and no error when nothing is stored.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Session is the process-wide token cell. Consumers re-read it instead of subscribing.
type Session struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, logger: logger}
}

// Token returns the current token. Read failures degrade to "no session".
func (s *Session) Token(ctx context.Context) string {
	token, err := s.store.Get(ctx)
	if err != nil {
		s.logger.Warn("reading session token", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(token)
}

// Active reports whether session scoped data can be fetched.
func (s *Session) Active(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

func (s *Session) Set(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	if err := s.store.Set(ctx, token); err != nil {
		return fmt.Errorf("storing session token: %w", err)
	}

	s.logger.Debug("session token stored", zap.String("session", Mask(token)))
	return nil
}

// Clear removes the token. Clearing an absent token is not an error.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session token: %w", err)
	}

	s.logger.Debug("session token cleared")
	return nil
}

// Mask hides most of a token for logs and output.
func Mask(s string) string {
	if len(s) <= 10 {
		return "****"
	}
	return s[:4] + "…" + s[len(s)-4:]
}
