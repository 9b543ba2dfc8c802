package backend

import (
	"context"
	"net/url"
	"time"

	"github.com/andescare/portal/pkg/pagination"
)

// Medication is a prescribed medication entry for a patient.
type Medication struct {
	ID         string     `json:"id,omitempty"`
	PatientRUT string     `json:"rut_paciente"`
	Name       string     `json:"name"`
	Dose       string     `json:"dose"`
	Frequency  string     `json:"frequency"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Active     bool       `json:"active"`
}

// MedicationPage is the page envelope for medication listings.
type MedicationPage struct {
	Items    []*Medication `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// MedicationFilter narrows medication listings.
type MedicationFilter struct {
	PatientRUT string
	Active     string // "true" / "false", empty for all
	Search     string
}

func (f MedicationFilter) apply(q url.Values) {
	setNonEmpty(q, "rut_paciente", f.PatientRUT)
	setNonEmpty(q, "active", f.Active)
	setNonEmpty(q, "search", f.Search)
}

// MedicationClient calls the /medications resource.
type MedicationClient struct {
	c *Client
}

func NewMedicationClient(c *Client) *MedicationClient {
	return &MedicationClient{c: c}
}

func (mc *MedicationClient) List(ctx context.Context, filter MedicationFilter, p pagination.Params) (*MedicationPage, error) {
	q := url.Values{}
	filter.apply(q)
	p.Apply(q)

	var page MedicationPage
	if err := mc.c.get(ctx, "/medications", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (mc *MedicationClient) Get(ctx context.Context, id string) (*Medication, error) {
	var m Medication
	if err := mc.c.get(ctx, "/medications/"+url.PathEscape(id), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (mc *MedicationClient) Create(ctx context.Context, m *Medication) (*Medication, error) {
	var created Medication
	if err := mc.c.post(ctx, "/medications", m, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (mc *MedicationClient) Update(ctx context.Context, id string, m *Medication) (*Medication, error) {
	var updated Medication
	if err := mc.c.put(ctx, "/medications/"+url.PathEscape(id), m, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (mc *MedicationClient) Delete(ctx context.Context, id string) error {
	return mc.c.delete(ctx, "/medications/"+url.PathEscape(id))
}
