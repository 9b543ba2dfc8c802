package backend

import (
	"context"
	"net/url"
	"time"
)

// Profile is a patient's gamification record: engagement points and the
// current activity streak, updated as a side effect of logins and
// measurement events.
type Profile struct {
	PatientRUT     string     `json:"rut_paciente"`
	Points         int        `json:"points"`
	Streak         int        `json:"streak"`
	Level          int        `json:"level,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
}

// GamificationClient calls the /gamification resource.
type GamificationClient struct {
	c *Client
}

func NewGamificationClient(c *Client) *GamificationClient {
	return &GamificationClient{c: c}
}

// GetProfile fetches the gamification profile for a patient.
func (gc *GamificationClient) GetProfile(ctx context.Context, rut string) (*Profile, error) {
	var p Profile
	if err := gc.c.get(ctx, "/gamification/"+url.PathEscape(rut), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// RecordActivity records "last activity now" for the patient. Callers treat
// this as best-effort; it is always issued through a detached task.
func (gc *GamificationClient) RecordActivity(ctx context.Context, rut string) error {
	return gc.c.post(ctx, "/gamification/"+url.PathEscape(rut)+"/activity", nil, nil)
}
