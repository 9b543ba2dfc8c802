package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/andescare/portal/internal/backend"
	"github.com/andescare/portal/internal/session"
)

// Doctor is the clinical overview: patients under monitoring, clinical
// notes authored by this doctor, and configured clinical ranges.
type Doctor struct {
	users  *backend.UserClient
	notes  *backend.NoteClient
	ranges *backend.RangeClient
}

func NewDoctor(users *backend.UserClient, notes *backend.NoteClient, ranges *backend.RangeClient) *Doctor {
	return &Doctor{users: users, notes: notes, ranges: ranges}
}

func (d *Doctor) Name() string { return "doctor" }

func (d *Doctor) Load(ctx context.Context, user session.User) (*Summary, error) {
	var patients, notes, ranges int

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := d.users.List(ctx, backend.UserFilter{Role: string(session.RolePatient)}, countOnly())
		if err != nil {
			return err
		}
		patients = page.Total
		return nil
	})
	g.Go(func() error {
		page, err := d.notes.List(ctx, backend.NoteFilter{AuthorID: user.ID}, countOnly())
		if err != nil {
			return err
		}
		notes = page.Total
		return nil
	})
	g.Go(func() error {
		page, err := d.ranges.List(ctx, backend.RangeFilter{}, countOnly())
		if err != nil {
			return err
		}
		ranges = page.Total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		View: d.Name(),
		Totals: map[string]int{
			"patients": patients,
			"notes":    notes,
			"ranges":   ranges,
		},
	}, nil
}
