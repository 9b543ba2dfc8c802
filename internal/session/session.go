// Package session holds the authenticated user state for the portal: the
// canonical User/Role model, the durable keyed store it is persisted in, and
// the manager that reconciles the two.
package session

import "encoding/json"

// Role is the closed set of portal roles. There is no hierarchy; roles are
// flat and mutually exclusive.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDoctor    Role = "doctor"
	RoleCaregiver Role = "caregiver"
	RolePatient   Role = "patient"
)

// Valid reports whether r is one of the four recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleCaregiver, RolePatient:
		return true
	}
	return false
}

// User is the canonical authenticated user. RutPaciente is the patient's
// national identifier; the backend emits it under two different field names
// and it is coalesced here, at the decode boundary, so only the canonical
// name exists past this point.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	Email       string `json:"email"`
	RutPaciente string `json:"rutPaciente,omitempty"`
}

// UnmarshalJSON accepts both rutPaciente and rut_paciente, preferring the
// camel-case variant when both are present.
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		*alias
		RutSnake string `json:"rut_paciente"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.RutPaciente == "" {
		u.RutPaciente = aux.RutSnake
	}
	return nil
}

// Session is the unit of persisted authentication state. It is created by
// login, destroyed by logout, and never partially updated.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token,omitempty"`
}
