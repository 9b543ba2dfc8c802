package session

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

func newTestManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	return NewManager(store, zerolog.Nop()), store
}

func TestManager_SaveRestore(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	in := &Session{User: User{ID: "u1", Role: RoleDoctor, Email: "d@x.cl"}, Token: "opaque-token"}
	if err := m.Save(ctx, "k1", in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := m.Restore(ctx, "k1")
	if out == nil {
		t.Fatal("expected restored session")
	}
	if out.User.ID != "u1" || out.User.Role != RoleDoctor {
		t.Errorf("unexpected session: %+v", out)
	}
}

func TestManager_Restore_NoEntry(t *testing.T) {
	m, _ := newTestManager()
	if sess := m.Restore(context.Background(), "missing"); sess != nil {
		t.Errorf("expected nil for missing entry, got %+v", sess)
	}
}

func TestManager_Restore_CorruptJSON(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	corrupt := [][]byte{
		[]byte(`{"user":`),
		[]byte(`not json at all`),
		[]byte(`[1,2,3]`),
		[]byte(``),
	}
	for i, data := range corrupt {
		key := fmt.Sprintf("k%d", i)
		store.Put(ctx, key, data)
		if sess := m.Restore(ctx, key); sess != nil {
			t.Errorf("entry %d: expected nil for corrupt data, got %+v", i, sess)
		}
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Errorf("entry %d: expected corrupt entry to be cleared", i)
		}
	}
}

func TestManager_Restore_NormalizesRutField(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	// A session persisted by an older build with the snake_case field name.
	store.Put(ctx, "k1", []byte(`{"user":{"id":"u1","role":"patient","rut_paciente":"12345678-9"},"token":"t"}`))

	sess := m.Restore(ctx, "k1")
	if sess == nil {
		t.Fatal("expected restored session")
	}
	if sess.User.RutPaciente != "12345678-9" {
		t.Errorf("expected canonical rut field, got %q", sess.User.RutPaciente)
	}

	data, _ := json.Marshal(sess)
	if string(data) == "" || jsonHasField(data, "rut_paciente") {
		t.Errorf("snake_case field must not exist past the boundary: %s", data)
	}
}

func TestManager_Restore_ExpiredToken(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	tok := signedToken(t, time.Now().Add(-time.Hour))
	sess := &Session{User: User{ID: "u1", Role: RolePatient}, Token: tok}
	if err := m.Save(ctx, "k1", sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := m.Restore(ctx, "k1"); got != nil {
		t.Errorf("expected expired session to be dropped, got %+v", got)
	}
	if _, ok, _ := store.Get(ctx, "k1"); ok {
		t.Error("expected expired entry to be cleared from the store")
	}
}

func TestManager_Restore_FutureToken(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	tok := signedToken(t, time.Now().Add(time.Hour))
	m.Save(ctx, "k1", &Session{User: User{ID: "u1", Role: RolePatient}, Token: tok})

	if got := m.Restore(ctx, "k1"); got == nil {
		t.Error("expected session with unexpired token to be restored")
	}
}

func TestManager_Clear(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	m.Save(ctx, "k1", &Session{User: User{ID: "u1", Role: RoleAdmin}})
	if err := m.Clear(ctx, "k1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess := m.Restore(ctx, "k1"); sess != nil {
		t.Errorf("expected no session after clear, got %+v", sess)
	}
	if _, ok, _ := store.Get(ctx, "k1"); ok {
		t.Error("expected store entry to be removed")
	}
}

func TestTokenExpired(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty", "", false},
		{"opaque", "not-a-jwt", false},
		{"garbage segments", "a.b.c", false},
		{"expired", signedTokenAt(time.Now().Add(-time.Minute)), true},
		{"valid", signedTokenAt(time.Now().Add(time.Minute)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenExpired(tt.token); got != tt.want {
				t.Errorf("tokenExpired(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

// signedToken creates an HS256 token with the given expiry.
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	return signedTokenAt(exp)
}

func signedTokenAt(exp time.Time) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return s
}

func jsonHasField(data []byte, field string) bool {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}
	var walk func(v interface{}) bool
	walk = func(v interface{}) bool {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return false
		}
		for k, val := range obj {
			if k == field {
				return true
			}
			if walk(val) {
				return true
			}
		}
		return false
	}
	return walk(m)
}
