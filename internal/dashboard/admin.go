package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/andescare/portal/internal/backend"
	"github.com/andescare/portal/internal/session"
)

// Admin is the administrator overview: platform-wide counts of patients,
// caregivers, medical staff, and medications.
type Admin struct {
	users      *backend.UserClient
	caregivers *backend.CaregiverClient
	staff      *backend.StaffClient
	meds       *backend.MedicationClient
}

func NewAdmin(users *backend.UserClient, caregivers *backend.CaregiverClient, staff *backend.StaffClient, meds *backend.MedicationClient) *Admin {
	return &Admin{users: users, caregivers: caregivers, staff: staff, meds: meds}
}

func (d *Admin) Name() string { return "admin" }

func (d *Admin) Load(ctx context.Context, _ session.User) (*Summary, error) {
	var patients, caregivers, staff, meds int

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
		page, err := d.caregivers.List(ctx, backend.CaregiverFilter{}, countOnly())
		if err != nil {
			return err
		}
		caregivers = page.Total
		return nil
	})
	g.Go(func() error {
		page, err := d.staff.List(ctx, backend.StaffFilter{}, countOnly())
		if err != nil {
			return err
		}
		staff = page.Total
		return nil
	})
	g.Go(func() error {
		page, err := d.meds.List(ctx, backend.MedicationFilter{}, countOnly())
		if err != nil {
			return err
		}
		meds = page.Total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		View: d.Name(),
		Totals: map[string]int{
			"patients":    patients,
			"caregivers":  caregivers,
			"staff":       staff,
			"medications": meds,
		},
	}, nil
}
