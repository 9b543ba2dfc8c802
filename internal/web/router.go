// Package web is the portal's HTTP surface: the session endpoints, the
// role-routed dashboard endpoint, and the middleware that restores the
// durable session on each request.
package web

import (
	"context"

	"github.com/andescare/portal/internal/dashboard"
	"github.com/andescare/portal/internal/session"
)

// loginView is what anonymous traffic resolves to. An unrecognized role is
// routed here too, exactly as if there were no session at all.
type loginView struct{}

func (loginView) Name() string { return "login" }

func (loginView) Load(_ context.Context, _ session.User) (*dashboard.Summary, error) {
	return &dashboard.Summary{View: "login"}, nil
}

// Router maps a session to its dashboard. It holds no state beyond the
// registry and is safe for concurrent use.
type Router struct {
	reg *dashboard.Registry
}

func NewRouter(reg *dashboard.Registry) Router {
	return Router{reg: reg}
}

// DashboardFor resolves the dashboard for sess. A nil session, an invalid
// role, or a role with no registered dashboard all land on the login view;
// routing never fails.
func (r Router) DashboardFor(sess *session.Session) dashboard.Dashboard {
	if sess == nil || !sess.User.Role.Valid() {
		return loginView{}
	}
	d, ok := r.reg.ForRole(sess.User.Role)
	if !ok {
		return loginView{}
	}
	return d
}
