package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Manager reconciles in-memory session state with its durable copy. All
// mutation goes through Save and Clear; there is no partial update.
type Manager struct {
	store  Store
	logger zerolog.Logger
}

func NewManager(store Store, logger zerolog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Restore loads a previously persisted session. Anything that prevents a
// usable session (no entry, corrupt JSON, an expired bearer token) yields
// nil rather than an error; a corrupt or expired entry is cleared so the
// store and memory agree again.
func (m *Manager) Restore(ctx context.Context, key string) *Session {
	data, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Warn().Err(err).Msg("session store read failed")
		return nil
	}
	if !ok {
		return nil
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		m.logger.Warn().Err(err).Msg("discarding corrupt stored session")
		m.clearQuietly(ctx, key)
		return nil
	}
	if tokenExpired(sess.Token) {
		m.logger.Info().Str("user_id", sess.User.ID).Msg("discarding session with expired token")
		m.clearQuietly(ctx, key)
		return nil
	}
	return &sess
}

// Save persists the session under key. The durable copy is written before
// the session is considered established.
func (m *Manager) Save(ctx context.Context, key string, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Clear removes the persisted session.
func (m *Manager) Clear(ctx context.Context, key string) error {
	if err := m.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (m *Manager) clearQuietly(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		m.logger.Warn().Err(err).Msg("failed to clear stale session entry")
	}
}

// tokenExpired inspects the bearer token's exp claim without verifying the
// signature (verification belongs to the backend). Opaque or claim-less
// tokens are kept; only a parseable JWT with an exp in the past is stale.
func tokenExpired(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
