package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/andescare/portal/internal/backend"
	"github.com/andescare/portal/internal/session"
)

// Patient is the patient's own overview: their medications, their clinical
// notes, and the gamification profile.
type Patient struct {
	meds   *backend.MedicationClient
	notes  *backend.NoteClient
	gamify *backend.GamificationClient
}

func NewPatient(meds *backend.MedicationClient, notes *backend.NoteClient, gamify *backend.GamificationClient) *Patient {
	return &Patient{meds: meds, notes: notes, gamify: gamify}
}

func (d *Patient) Name() string { return "patient" }

func (d *Patient) Load(ctx context.Context, user session.User) (*Summary, error) {
	if user.RutPaciente == "" {
		return nil, &backend.Error{Status: 422, Message: "la sesión de paciente no tiene RUT asociado"}
	}

	var (
		meds, notes int
		profile     *backend.Profile
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := d.meds.List(ctx, backend.MedicationFilter{PatientRUT: user.RutPaciente}, countOnly())
		if err != nil {
			return err
		}
		meds = page.Total
		return nil
	})
	g.Go(func() error {
		page, err := d.notes.List(ctx, backend.NoteFilter{PatientRUT: user.RutPaciente}, countOnly())
		if err != nil {
			return err
		}
		notes = page.Total
		return nil
	})
	g.Go(func() error {
		p, err := d.gamify.GetProfile(ctx, user.RutPaciente)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		View: d.Name(),
		Totals: map[string]int{
			"medications": meds,
			"notes":       notes,
		},
		Profile: profile,
	}, nil
}
