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

// StaffMember is a doctor or other clinical professional, scoped to the
// CESFAM (primary-care center) they work at.
type StaffMember struct {
	ID        string `json:"id,omitempty"`
	RUT       string `json:"rut"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Specialty string `json:"specialty,omitempty"`
	CESFAM    string `json:"cesfam"`
	Active    bool   `json:"active"`
}

// StaffPage is the page envelope for staff listings.
type StaffPage struct {
	Items    []*StaffMember `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// StaffFilter narrows staff listings.
type StaffFilter struct {
	CESFAM    string
	Specialty string
	Search    string
}

func (f StaffFilter) apply(q url.Values) {
	setNonEmpty(q, "cesfam", f.CESFAM)
	setNonEmpty(q, "specialty", f.Specialty)
	setNonEmpty(q, "search", f.Search)
}

// StaffClient calls the /medical-staff resource. Creation uses the same
// pre-check-then-create protocol as caregivers.
type StaffClient struct {
	c      *Client
	mail   *MailClient
	tasks  *task.Runner
	logger zerolog.Logger
}

func NewStaffClient(c *Client, mail *MailClient, tasks *task.Runner, logger zerolog.Logger) *StaffClient {
	return &StaffClient{c: c, mail: mail, tasks: tasks, logger: logger}
}

func (sc *StaffClient) List(ctx context.Context, filter StaffFilter, p pagination.Params) (*StaffPage, error) {
	q := url.Values{}
	filter.apply(q)
	p.Apply(q)

	var page StaffPage
	if err := sc.c.get(ctx, "/medical-staff", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (sc *StaffClient) Get(ctx context.Context, id string) (*StaffMember, error) {
	var m StaffMember
	if err := sc.c.get(ctx, "/medical-staff/"+url.PathEscape(id), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (sc *StaffClient) GetByRUT(ctx context.Context, rut string) (*StaffMember, error) {
	var m StaffMember
	if err := sc.c.get(ctx, "/medical-staff/rut/"+url.PathEscape(rut), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (sc *StaffClient) GetByEmail(ctx context.Context, email string) (*StaffMember, error) {
	var m StaffMember
	if err := sc.c.get(ctx, "/medical-staff/email/"+url.PathEscape(email), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create registers a new staff member after checking that neither the RUT
// nor the email is already taken. The welcome email is best-effort.
func (sc *StaffClient) Create(ctx context.Context, m *StaffMember) (*StaffMember, error) {
	if m.RUT == "" {
		return nil, &Error{Status: http.StatusUnprocessableEntity, Message: "rut es obligatorio"}
	}
	if m.Email == "" {
		return nil, &Error{Status: http.StatusUnprocessableEntity, Message: "email es obligatorio"}
	}

	if _, err := sc.GetByRUT(ctx, m.RUT); err == nil {
		return nil, &Error{Status: http.StatusConflict, Message: fmt.Sprintf("rut %s ya registrado", m.RUT)}
	} else if !IsNotFound(err) {
		return nil, err
	}
	if _, err := sc.GetByEmail(ctx, m.Email); err == nil {
		return nil, &Error{Status: http.StatusConflict, Message: fmt.Sprintf("email %s ya registrado", m.Email)}
	} else if !IsNotFound(err) {
		return nil, err
	}

	var created StaffMember
	if err := sc.c.post(ctx, "/medical-staff", m, &created); err != nil {
		return nil, err
	}

	sc.tasks.Detach("staff-welcome-email", func(ctx context.Context) error {
		return sc.mail.Send(ctx, &Mail{
			To:      created.Email,
			Subject: "Bienvenido a AndesCare",
			Body:    fmt.Sprintf("Hola %s, tu cuenta de personal médico fue creada correctamente.", created.Name),
		})
	})

	return &created, nil
}

func (sc *StaffClient) Update(ctx context.Context, id string, m *StaffMember) (*StaffMember, error) {
	var updated StaffMember
	if err := sc.c.put(ctx, "/medical-staff/"+url.PathEscape(id), m, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (sc *StaffClient) Delete(ctx context.Context, id string) error {
	return sc.c.delete(ctx, "/medical-staff/"+url.PathEscape(id))
}
