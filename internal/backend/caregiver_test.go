package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/andescare/portal/internal/platform/task"
)

// caregiverBackend simulates the relevant slice of the monitoring API:
// existence lookups, create, and the email dispatcher.
type caregiverBackend struct {
	knownRUTs   map[string]bool
	knownEmails map[string]bool
	lookupFail  bool // non-404 failure on lookups
	mailFail    bool

	createCalls atomic.Int32
	mailCalls   atomic.Int32
}

func (b *caregiverBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/caregivers/rut/", func(w http.ResponseWriter, r *http.Request) {
		if b.lookupFail {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"lookup exploded"}`))
			return
		}
		rut := strings.TrimPrefix(r.URL.Path, "/caregivers/rut/")
		if b.knownRUTs[rut] {
			json.NewEncoder(w).Encode(&Caregiver{RUT: rut, Name: "Existing"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"no encontrado"}`))
	})
	mux.HandleFunc("/caregivers/email/", func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimPrefix(r.URL.Path, "/caregivers/email/")
		if b.knownEmails[email] {
			json.NewEncoder(w).Encode(&Caregiver{Email: email, Name: "Existing"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"no encontrado"}`))
	})
	mux.HandleFunc("/caregivers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		b.createCalls.Add(1)
		var cg Caregiver
		json.NewDecoder(r.Body).Decode(&cg)
		cg.ID = "cg-1"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(&cg)
	})
	mux.HandleFunc("/email/send", func(w http.ResponseWriter, r *http.Request) {
		b.mailCalls.Add(1)
		if b.mailFail {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"detail":"smtp down"}`))
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})
	return mux
}

func newCaregiverClient(t *testing.T, b *caregiverBackend) (*CaregiverClient, *task.Runner, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	tasks := task.New(zerolog.Nop())
	return NewCaregiverClient(c, NewMailClient(c), tasks, zerolog.Nop()), tasks, srv
}

func TestCaregiverCreate_ChecksThenCreates(t *testing.T) {
	b := &caregiverBackend{knownRUTs: map[string]bool{}, knownEmails: map[string]bool{}}
	cc, tasks, _ := newCaregiverClient(t, b)

	created, err := cc.Create(context.Background(), &Caregiver{
		RUT:   "12345678-9",
		Name:  "Maria",
		Email: "maria@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "cg-1" {
		t.Errorf("expected created caregiver, got %+v", created)
	}
	if got := b.createCalls.Load(); got != 1 {
		t.Errorf("expected exactly one create call, got %d", got)
	}

	tasks.Wait()
	if got := b.mailCalls.Load(); got != 1 {
		t.Errorf("expected welcome email to be sent, got %d calls", got)
	}
}

func TestCaregiverCreate_RUTTaken(t *testing.T) {
	b := &caregiverBackend{knownRUTs: map[string]bool{"12345678-9": true}, knownEmails: map[string]bool{}}
	cc, _, _ := newCaregiverClient(t, b)

	_, err := cc.Create(context.Background(), &Caregiver{RUT: "12345678-9", Email: "new@example.com"})
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !strings.Contains(err.Error(), "ya registrado") {
		t.Errorf("expected 'ya registrado' message, got %q", err.Error())
	}
	if got := b.createCalls.Load(); got != 0 {
		t.Errorf("create endpoint must not be called on conflict, got %d calls", got)
	}
}

func TestCaregiverCreate_EmailTaken(t *testing.T) {
	b := &caregiverBackend{knownRUTs: map[string]bool{}, knownEmails: map[string]bool{"dup@example.com": true}}
	cc, _, _ := newCaregiverClient(t, b)

	_, err := cc.Create(context.Background(), &Caregiver{RUT: "11111111-1", Email: "dup@example.com"})
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := b.createCalls.Load(); got != 0 {
		t.Errorf("create endpoint must not be called on conflict, got %d calls", got)
	}
}

func TestCaregiverCreate_LookupFailurePropagates(t *testing.T) {
	b := &caregiverBackend{knownRUTs: map[string]bool{}, knownEmails: map[string]bool{}, lookupFail: true}
	cc, _, _ := newCaregiverClient(t, b)

	_, err := cc.Create(context.Background(), &Caregiver{RUT: "11111111-1", Email: "x@example.com"})
	if !IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("expected 500 to propagate, got %v", err)
	}
	if got := b.createCalls.Load(); got != 0 {
		t.Errorf("create endpoint must not be called after lookup failure, got %d calls", got)
	}
}

func TestCaregiverCreate_WelcomeMailFailureIsSwallowed(t *testing.T) {
	b := &caregiverBackend{knownRUTs: map[string]bool{}, knownEmails: map[string]bool{}, mailFail: true}
	cc, tasks, _ := newCaregiverClient(t, b)

	created, err := cc.Create(context.Background(), &Caregiver{RUT: "11111111-1", Email: "x@example.com", Name: "X"})
	if err != nil {
		t.Fatalf("create must succeed despite mail failure, got %v", err)
	}
	if created == nil || created.ID == "" {
		t.Errorf("expected created caregiver, got %+v", created)
	}

	tasks.Wait()
	if got := b.mailCalls.Load(); got != 1 {
		t.Errorf("expected the mail call to have been attempted, got %d", got)
	}
}

func TestCaregiverCreate_RequiresNaturalKeyAndEmail(t *testing.T) {
	b := &caregiverBackend{knownRUTs: map[string]bool{}, knownEmails: map[string]bool{}}
	cc, _, _ := newCaregiverClient(t, b)

	if _, err := cc.Create(context.Background(), &Caregiver{Email: "x@example.com"}); err == nil {
		t.Error("expected error for missing rut")
	}
	if _, err := cc.Create(context.Background(), &Caregiver{RUT: "1-9"}); err == nil {
		t.Error("expected error for missing email")
	}
	if got := b.createCalls.Load(); got != 0 {
		t.Errorf("expected no create calls, got %d", got)
	}
}
