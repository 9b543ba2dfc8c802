package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/andescare/portal/internal/platform/task"
	"github.com/andescare/portal/pkg/pagination"
)

// Caregiver is a registered caregiver account. RUT is the natural key.
type Caregiver struct {
	ID          string `json:"id,omitempty"`
	RUT         string `json:"rut"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	PatientRUT  string `json:"rut_paciente,omitempty"`
	Active      bool   `json:"active"`
}

// CaregiverPage is the page envelope for caregiver listings.
type CaregiverPage struct {
	Items    []*Caregiver `json:"items"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// CaregiverFilter narrows caregiver listings.
type CaregiverFilter struct {
	PatientRUT string
	Search     string
}

func (f CaregiverFilter) apply(q url.Values) {
	setNonEmpty(q, "rut_paciente", f.PatientRUT)
	setNonEmpty(q, "search", f.Search)
}

// CaregiverClient calls the /caregivers resource. Creation follows the
// pre-check-then-create protocol: both the RUT and the email are looked up
// first so duplicates surface as a specific 409 instead of a server-side
// constraint violation. Two concurrent creates can still both pass the
// checks; that race belongs to the backend and is not handled here.
type CaregiverClient struct {
	c      *Client
	mail   *MailClient
	tasks  *task.Runner
	logger zerolog.Logger
}

func NewCaregiverClient(c *Client, mail *MailClient, tasks *task.Runner, logger zerolog.Logger) *CaregiverClient {
	return &CaregiverClient{c: c, mail: mail, tasks: tasks, logger: logger}
}

func (cc *CaregiverClient) List(ctx context.Context, filter CaregiverFilter, p pagination.Params) (*CaregiverPage, error) {
	q := url.Values{}
	filter.apply(q)
	p.Apply(q)

	var page CaregiverPage
	if err := cc.c.get(ctx, "/caregivers", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (cc *CaregiverClient) Get(ctx context.Context, id string) (*Caregiver, error) {
	var cg Caregiver
	if err := cc.c.get(ctx, "/caregivers/"+url.PathEscape(id), nil, &cg); err != nil {
		return nil, err
	}
	return &cg, nil
}

// GetByRUT looks a caregiver up by national identifier.
func (cc *CaregiverClient) GetByRUT(ctx context.Context, rut string) (*Caregiver, error) {
	var cg Caregiver
	if err := cc.c.get(ctx, "/caregivers/rut/"+url.PathEscape(rut), nil, &cg); err != nil {
		return nil, err
	}
	return &cg, nil
}

// GetByEmail looks a caregiver up by contact address.
func (cc *CaregiverClient) GetByEmail(ctx context.Context, email string) (*Caregiver, error) {
	var cg Caregiver
	if err := cc.c.get(ctx, "/caregivers/email/"+url.PathEscape(email), nil, &cg); err != nil {
		return nil, err
	}
	return &cg, nil
}

// Create registers a new caregiver. Both existence checks must come back
// negative (404) before the create request is issued; any other lookup
// failure propagates as-is. On success a welcome email is sent best-effort
// and can never fail the create.
func (cc *CaregiverClient) Create(ctx context.Context, cg *Caregiver) (*Caregiver, error) {
	if cg.RUT == "" {
		return nil, &Error{Status: http.StatusUnprocessableEntity, Message: "rut es obligatorio"}
	}
	if cg.Email == "" {
		return nil, &Error{Status: http.StatusUnprocessableEntity, Message: "email es obligatorio"}
	}

	if err := cc.checkAvailable(ctx, cg.RUT, cg.Email); err != nil {
		return nil, err
	}

	var created Caregiver
	if err := cc.c.post(ctx, "/caregivers", cg, &created); err != nil {
		return nil, err
	}

	cc.sendWelcome(created.Email, created.Name)
	return &created, nil
}

// checkAvailable returns nil when neither the RUT nor the email is already
// registered. 404 is the expected negative result for each lookup.
func (cc *CaregiverClient) checkAvailable(ctx context.Context, rut, email string) error {
	if _, err := cc.GetByRUT(ctx, rut); err == nil {
		return &Error{Status: http.StatusConflict, Message: fmt.Sprintf("rut %s ya registrado", rut)}
	} else if !IsNotFound(err) {
		return err
	}

	if _, err := cc.GetByEmail(ctx, email); err == nil {
		return &Error{Status: http.StatusConflict, Message: fmt.Sprintf("email %s ya registrado", email)}
	} else if !IsNotFound(err) {
		return err
	}

	return nil
}

func (cc *CaregiverClient) sendWelcome(email, name string) {
	cc.tasks.Detach("caregiver-welcome-email", func(ctx context.Context) error {
		return cc.mail.Send(ctx, &Mail{
			To:      email,
			Subject: "Bienvenido a AndesCare",
			Body:    fmt.Sprintf("Hola %s, tu cuenta de cuidador fue creada correctamente.", name),
		})
	})
}

func (cc *CaregiverClient) Update(ctx context.Context, id string, cg *Caregiver) (*Caregiver, error) {
	var updated Caregiver
	if err := cc.c.put(ctx, "/caregivers/"+url.PathEscape(id), cg, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (cc *CaregiverClient) Delete(ctx context.Context, id string) error {
	return cc.c.delete(ctx, "/caregivers/"+url.PathEscape(id))
}
