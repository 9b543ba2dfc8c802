package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/andescare/portal/internal/backend"
	"github.com/andescare/portal/internal/session"
)

// Caregiver is the caregiver overview. The caregiver record is looked up by
// the session email to resolve which patient they care for; the figures are
// then scoped to that patient.
type Caregiver struct {
	caregivers *backend.CaregiverClient
	meds       *backend.MedicationClient
	notes      *backend.NoteClient
	ranges     *backend.RangeClient
}

func NewCaregiver(caregivers *backend.CaregiverClient, meds *backend.MedicationClient, notes *backend.NoteClient, ranges *backend.RangeClient) *Caregiver {
	return &Caregiver{caregivers: caregivers, meds: meds, notes: notes, ranges: ranges}
}

func (d *Caregiver) Name() string { return "caregiver" }

func (d *Caregiver) Load(ctx context.Context, user session.User) (*Summary, error) {
	cg, err := d.caregivers.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("resolve caregiver record: %w", err)
	}

	var meds, notes, ranges int

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := d.meds.List(ctx, backend.MedicationFilter{PatientRUT: cg.PatientRUT}, countOnly())
		if err != nil {
			return err
		}
		meds = page.Total
		return nil
	})
	g.Go(func() error {
		page, err := d.notes.List(ctx, backend.NoteFilter{PatientRUT: cg.PatientRUT}, countOnly())
		if err != nil {
			return err
		}
		notes = page.Total
		return nil
	})
	g.Go(func() error {
		page, err := d.ranges.List(ctx, backend.RangeFilter{PatientRUT: cg.PatientRUT}, countOnly())
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
			"medications": meds,
			"notes":       notes,
			"ranges":      ranges,
		},
	}, nil
}
