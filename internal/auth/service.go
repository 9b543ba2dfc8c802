// Package auth implements the login flow against the monitoring backend:
// credential normalization, the bounded login request, error mapping, and
// the best-effort activity ping for patient logins.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/andescare/portal/internal/backend"
	"github.com/andescare/portal/internal/platform/task"
	"github.com/andescare/portal/internal/session"
)

// MsgInvalidCredentials replaces whatever detail the backend attaches to a
// 401, so credential probing learns nothing from the message.
const MsgInvalidCredentials = "Credenciales inválidas"

// DefaultTimeout bounds the login request.
const DefaultTimeout = 15 * time.Second

// Service performs logins and produces sessions.
type Service struct {
	auth    *backend.AuthClient
	gamify  *backend.GamificationClient
	tasks   *task.Runner
	timeout time.Duration
	logger  zerolog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTimeout overrides the login request timeout.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.timeout = d }
}

func NewService(auth *backend.AuthClient, gamify *backend.GamificationClient, tasks *task.Runner, logger zerolog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		auth:    auth,
		gamify:  gamify,
		tasks:   tasks,
		timeout: DefaultTimeout,
		logger:  logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login authenticates against the backend and returns the session to
// persist. The email is trimmed and lowercased before transmission. A 401
// always maps to MsgInvalidCredentials; a timeout surfaces as a status-0
// error distinct from server rejections. On patient logins carrying a RUT,
// a last-activity ping is fired detached and can never affect the result.
func (s *Service) Login(ctx context.Context, email, password string, role session.Role) (*session.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.auth.Login(ctx, backend.Credentials{
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		if backend.IsStatus(err, http.StatusUnauthorized) {
			return nil, &backend.Error{Status: http.StatusUnauthorized, Message: MsgInvalidCredentials}
		}
		return nil, err
	}

	sess := &session.Session{User: res.User, Token: res.Token}

	if res.User.Role == session.RolePatient && res.User.RutPaciente != "" {
		rut := res.User.RutPaciente
		s.tasks.Detach("login-activity-ping", func(ctx context.Context) error {
			return s.gamify.RecordActivity(ctx, rut)
		})
	}

	return sess, nil
}
