package session

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleDoctor, RoleCaregiver, RolePatient} {
		if !r.Valid() {
			t.Errorf("expected %q to be valid", r)
		}
	}
	for _, r := range []Role{"", "superuser", "ADMIN", "nurse"} {
		if r.Valid() {
			t.Errorf("expected %q to be invalid", r)
		}
	}
}

func TestUser_Unmarshal_SnakeCaseRut(t *testing.T) {
	var u User
	err := json.Unmarshal([]byte(`{"id":"u1","name":"Pedro","role":"patient","email":"p@x.cl","rut_paciente":"12345678-9"}`), &u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.RutPaciente != "12345678-9" {
		t.Errorf("expected rut to be coalesced, got %q", u.RutPaciente)
	}
}

func TestUser_Unmarshal_CamelCaseRut(t *testing.T) {
	var u User
	err := json.Unmarshal([]byte(`{"id":"u1","role":"patient","rutPaciente":"11111111-1"}`), &u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.RutPaciente != "11111111-1" {
		t.Errorf("expected rut from camelCase field, got %q", u.RutPaciente)
	}
}

func TestUser_Unmarshal_CamelWinsOverSnake(t *testing.T) {
	var u User
	err := json.Unmarshal([]byte(`{"rutPaciente":"11111111-1","rut_paciente":"22222222-2"}`), &u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.RutPaciente != "11111111-1" {
		t.Errorf("expected camelCase variant to win, got %q", u.RutPaciente)
	}
}

func TestUser_Marshal_OnlyCanonicalField(t *testing.T) {
	u := User{ID: "u1", Name: "Pedro", Role: RolePatient, Email: "p@x.cl", RutPaciente: "12345678-9"}
	data, err := json.Marshal(&u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"rutPaciente":"12345678-9"`) {
		t.Errorf("expected canonical field, got %s", s)
	}
	if strings.Contains(s, "rut_paciente") {
		t.Errorf("snake_case field must not survive serialization: %s", s)
	}
}

func TestSession_RoundTrip(t *testing.T) {
	in := Session{
		User:  User{ID: "u1", Role: RolePatient, RutPaciente: "12345678-9"},
		Token: "tok",
	}
	data, err := json.Marshal(&in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out Session
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.User.RutPaciente != "12345678-9" {
		t.Errorf("expected rut to survive round trip, got %q", out.User.RutPaciente)
	}
	if out.Token != "tok" {
		t.Errorf("expected token to survive round trip, got %q", out.Token)
	}
}
