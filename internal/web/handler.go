package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/andescare/portal/internal/auth"
	"github.com/andescare/portal/internal/backend"
	"github.com/andescare/portal/internal/session"
)

const sessionContextKey = "portal.session"

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "portal_session"

// Handler serves the session lifecycle and the dashboard endpoint.
type Handler struct {
	auth       *auth.Service
	sessions   *session.Manager
	router     Router
	cookieName string
	logger     zerolog.Logger
}

func NewHandler(authSvc *auth.Service, sessions *session.Manager, router Router, cookieName string, logger zerolog.Logger) *Handler {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Handler{
		auth:       authSvc,
		sessions:   sessions,
		router:     router,
		cookieName: cookieName,
		logger:     logger,
	}
}

// RegisterRoutes mounts the portal routes. loginMW is applied to the login
// endpoint only; the rest of the API is not throttled.
func (h *Handler) RegisterRoutes(e *echo.Echo, loginMW ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)
	e.POST("/api/session", h.Login, loginMW...)

	api := e.Group("/api", h.SessionMiddleware())
	api.GET("/session", h.CurrentSession)
	api.DELETE("/session", h.Logout)
	api.GET("/dashboard", h.Dashboard)
}

// SessionMiddleware restores the durable session addressed by the request
// cookie and stores it in the echo context. It always sets the context key,
// with a nil session for anonymous traffic, so MustSession can tell "no
// session" apart from "middleware never ran".
func (h *Handler) SessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess *session.Session
			if cookie, err := c.Cookie(h.cookieName); err == nil && cookie.Value != "" {
				sess = h.sessions.Restore(c.Request().Context(), cookie.Value)
			}
			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// MustSession returns the restored session from the echo context, nil when
// the request carries none. It panics when called outside SessionMiddleware;
// a handler reaching for session state without the restoring boundary is a
// routing bug, not a runtime condition.
func MustSession(c echo.Context) *session.Session {
	v := c.Get(sessionContextKey)
	if v == nil {
		panic("web: MustSession called outside SessionMiddleware")
	}
	return v.(*session.Session)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Role     session.Role `json:"role"`
}

type sessionResponse struct {
	User session.User `json:"user"`
}

// Login authenticates against the backend, persists the session, and sets
// the session cookie.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return httpError(err)
	}

	key := uuid.NewString()
	if err := h.sessions.Save(c.Request().Context(), key, sess); err != nil {
		h.logger.Error().Err(err).Msg("failed to persist session")
		return echo.NewHTTPError(http.StatusInternalServerError, "no se pudo guardar la sesión")
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, sessionResponse{User: sess.User})
}

// Logout clears the durable session and expires the cookie. Logging out
// without a session is a no-op, not an error.
func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Clear(c.Request().Context(), cookie.Value); err != nil {
			h.logger.Warn().Err(err).Msg("failed to clear session entry")
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CurrentSession(c echo.Context) error {
	sess := MustSession(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no hay sesión activa")
	}
	return c.JSON(http.StatusOK, sessionResponse{User: sess.User})
}

// Dashboard resolves the caller's dashboard through the role router and
// loads it. Anonymous traffic and unrecognized roles get the login view.
func (h *Handler) Dashboard(c echo.Context) error {
	sess := MustSession(c)
	d := h.router.DashboardFor(sess)

	var user session.User
	if sess != nil {
		user = sess.User
	}
	sum, err := d.Load(c.Request().Context(), user)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sum)
}

// httpError translates a backend error into the echo error the client sees.
// Status 0 means the backend was never reached; the portal reports that as a
// bad gateway.
func httpError(err error) error {
	var be *backend.Error
	if errors.As(err, &be) {
		status := be.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		return echo.NewHTTPError(status, be.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
