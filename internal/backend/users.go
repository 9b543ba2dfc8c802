package backend

import (
	"context"
	"net/url"

	"github.com/andescare/portal/pkg/pagination"
)

// User is a backend account record as managed from the admin dashboard.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	RutPaciente string `json:"rut_paciente,omitempty"`
	Active      bool   `json:"active"`
}

// RoleInfo describes an assignable role.
type RoleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UserPage is the page envelope for user listings.
type UserPage struct {
	Items    []*User `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// UserFilter narrows user listings. Empty fields are omitted from the query.
type UserFilter struct {
	Role   string
	Email  string
	Search string
}

func (f UserFilter) apply(q url.Values) {
	setNonEmpty(q, "role", f.Role)
	setNonEmpty(q, "email", f.Email)
	setNonEmpty(q, "search", f.Search)
}

// UserClient calls the /users and /roles resources.
type UserClient struct {
	c *Client
}

func NewUserClient(c *Client) *UserClient {
	return &UserClient{c: c}
}

func (uc *UserClient) List(ctx context.Context, filter UserFilter, p pagination.Params) (*UserPage, error) {
	q := url.Values{}
	filter.apply(q)
	p.Apply(q)

	var page UserPage
	if err := uc.c.get(ctx, "/users", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (uc *UserClient) Get(ctx context.Context, id string) (*User, error) {
	var u User
	if err := uc.c.get(ctx, "/users/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (uc *UserClient) Create(ctx context.Context, u *User) (*User, error) {
	var created User
	if err := uc.c.post(ctx, "/users", u, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (uc *UserClient) Update(ctx context.Context, id string, u *User) (*User, error) {
	var updated User
	if err := uc.c.put(ctx, "/users/"+url.PathEscape(id), u, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *UserClient) Delete(ctx context.Context, id string) error {
	return uc.c.delete(ctx, "/users/"+url.PathEscape(id))
}

// ListRoles returns the closed set of assignable roles.
func (uc *UserClient) ListRoles(ctx context.Context) ([]*RoleInfo, error) {
	var roles []*RoleInfo
	if err := uc.c.get(ctx, "/roles", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// setNonEmpty writes a query parameter only when the value is non-empty,
// keeping optional filters out of the request entirely.
func setNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
