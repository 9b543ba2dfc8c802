// Package dashboard assembles the role-specific overview each user lands on
// after login. Every dashboard gathers its figures through the backend
// resource clients; the figures for one view are fetched concurrently and
// awaited jointly, so a view either loads completely or not at all.
package dashboard

import (
	"context"

	"github.com/andescare/portal/internal/backend"
	"github.com/andescare/portal/internal/session"
	"github.com/andescare/portal/pkg/pagination"
)

// Summary is the payload a dashboard resolves to. Totals carries the
// overview counters keyed by resource; Profile is set only on the patient
// view.
type Summary struct {
	View    string           `json:"view"`
	Totals  map[string]int   `json:"totals,omitempty"`
	Profile *backend.Profile `json:"profile,omitempty"`
}

// Dashboard loads the overview for one role.
type Dashboard interface {
	Name() string
	Load(ctx context.Context, user session.User) (*Summary, error)
}

// Registry holds one dashboard per role.
type Registry struct {
	Admin     Dashboard
	Doctor    Dashboard
	Caregiver Dashboard
	Patient   Dashboard
}

// ForRole returns the dashboard for role, or false when the role has none.
func (r *Registry) ForRole(role session.Role) (Dashboard, bool) {
	switch role {
	case session.RoleAdmin:
		return r.Admin, r.Admin != nil
	case session.RoleDoctor:
		return r.Doctor, r.Doctor != nil
	case session.RoleCaregiver:
		return r.Caregiver, r.Caregiver != nil
	case session.RolePatient:
		return r.Patient, r.Patient != nil
	}
	return nil, false
}

// countOnly asks for the smallest possible page; only the Total field of the
// envelope is of interest.
func countOnly() pagination.Params {
	return pagination.Params{Page: 1, PageSize: 1}
}
