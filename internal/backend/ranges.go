package backend

import (
	"context"
	"net/url"

	"github.com/andescare/portal/pkg/pagination"
)

// ClinicalRange is an alert threshold for one measured vital sign. Values
// outside [Min, Max] trigger alerts on the backend.
type ClinicalRange struct {
	ID         string  `json:"id,omitempty"`
	PatientRUT string  `json:"rut_paciente,omitempty"`
	Metric     string  `json:"metric"` // heart_rate, systolic, diastolic, glucose, spo2
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Unit       string  `json:"unit,omitempty"`
}

// RangePage is the page envelope for clinical range listings.
type RangePage struct {
	Items    []*ClinicalRange `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// RangeFilter narrows range listings.
type RangeFilter struct {
	PatientRUT string
	Metric     string
}

func (f RangeFilter) apply(q url.Values) {
	setNonEmpty(q, "rut_paciente", f.PatientRUT)
	setNonEmpty(q, "metric", f.Metric)
}

// RangeClient calls the /ranges resource.
type RangeClient struct {
	c *Client
}

func NewRangeClient(c *Client) *RangeClient {
	return &RangeClient{c: c}
}

func (rc *RangeClient) List(ctx context.Context, filter RangeFilter, p pagination.Params) (*RangePage, error) {
	q := url.Values{}
	filter.apply(q)
	p.Apply(q)

	var page RangePage
	if err := rc.c.get(ctx, "/ranges", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (rc *RangeClient) Get(ctx context.Context, id string) (*ClinicalRange, error) {
	var r ClinicalRange
	if err := rc.c.get(ctx, "/ranges/"+url.PathEscape(id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (rc *RangeClient) Create(ctx context.Context, r *ClinicalRange) (*ClinicalRange, error) {
	var created ClinicalRange
	if err := rc.c.post(ctx, "/ranges", r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (rc *RangeClient) Update(ctx context.Context, id string, r *ClinicalRange) (*ClinicalRange, error) {
	var updated ClinicalRange
	if err := rc.c.put(ctx, "/ranges/"+url.PathEscape(id), r, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (rc *RangeClient) Delete(ctx context.Context, id string) error {
	return rc.c.delete(ctx, "/ranges/"+url.PathEscape(id))
}
