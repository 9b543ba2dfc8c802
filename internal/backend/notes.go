package backend

import (
	"context"
	"net/url"
	"time"

	"github.com/andescare/portal/pkg/pagination"
)

// ClinicalNote is a free-text note attached to a patient's record.
type ClinicalNote struct {
	ID         string    `json:"id,omitempty"`
	PatientRUT string    `json:"rut_paciente"`
	AuthorID   string    `json:"author_id,omitempty"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// NotePage is the page envelope for clinical note listings.
type NotePage struct {
	Items    []*ClinicalNote `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// NoteFilter narrows note listings.
type NoteFilter struct {
	PatientRUT string
	AuthorID   string
}

func (f NoteFilter) apply(q url.Values) {
	setNonEmpty(q, "rut_paciente", f.PatientRUT)
	setNonEmpty(q, "author_id", f.AuthorID)
}

// NoteClient calls the /notes resource.
type NoteClient struct {
	c *Client
}

func NewNoteClient(c *Client) *NoteClient {
	return &NoteClient{c: c}
}

func (nc *NoteClient) List(ctx context.Context, filter NoteFilter, p pagination.Params) (*NotePage, error) {
	q := url.Values{}
	filter.apply(q)
	p.Apply(q)

	var page NotePage
	if err := nc.c.get(ctx, "/notes", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (nc *NoteClient) Get(ctx context.Context, id string) (*ClinicalNote, error) {
	var n ClinicalNote
	if err := nc.c.get(ctx, "/notes/"+url.PathEscape(id), nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (nc *NoteClient) Create(ctx context.Context, n *ClinicalNote) (*ClinicalNote, error) {
	var created ClinicalNote
	if err := nc.c.post(ctx, "/notes", n, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (nc *NoteClient) Update(ctx context.Context, id string, n *ClinicalNote) (*ClinicalNote, error) {
	var updated ClinicalNote
	if err := nc.c.put(ctx, "/notes/"+url.PathEscape(id), n, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (nc *NoteClient) Delete(ctx context.Context, id string) error {
	return nc.c.delete(ctx, "/notes/"+url.PathEscape(id))
}
