package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/models"
	"go.uber.org/zap"
)

type fakeWaitlist struct {
	entries []*models.WaitlistEntry
}

func (f *fakeWaitlist) Create(ctx context.Context, entry *models.WaitlistEntry) error {
	for _, e := range f.entries {
		if e.Email == entry.Email {
			return database.ErrDuplicate
		}
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeWaitlist) List(ctx context.Context) ([]*models.WaitlistEntry, error) {
	return f.entries, nil
}

func TestWaitlistJoin(t *testing.T) {
	t.Run("joins with default source", func(t *testing.T) {
		store := &fakeWaitlist{}
		h := NewWaitlistHandler(store, zap.NewNop())

		rec := postJSON(t, h.Join, "/api/waitlist", `{"email":"Hello@Example.com"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("Join() status = %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		if len(store.entries) != 1 {
			t.Fatalf("entries = %d, want 1", len(store.entries))
		}
		if store.entries[0].Email != "hello@example.com" {
			t.Errorf("email = %q, want lowercased", store.entries[0].Email)
		}
		if store.entries[0].Source != "landing_page" {
			t.Errorf("source = %q, want %q", store.entries[0].Source, "landing_page")
		}
	})

	t.Run("keeps an explicit source", func(t *testing.T) {
		store := &fakeWaitlist{}
		h := NewWaitlistHandler(store, zap.NewNop())

		rec := postJSON(t, h.Join, "/api/waitlist", `{"email":"hello@example.com","source":"referral"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("Join() status = %d, want %d", rec.Code, http.StatusCreated)
		}
		if store.entries[0].Source != "referral" {
			t.Errorf("source = %q, want %q", store.entries[0].Source, "referral")
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		store := &fakeWaitlist{}
		h := NewWaitlistHandler(store, zap.NewNop())

		if rec := postJSON(t, h.Join, "/api/waitlist", `{"email":"dup@example.com"}`); rec.Code != http.StatusCreated {
			t.Fatalf("first Join() status = %d, want %d", rec.Code, http.StatusCreated)
		}

		rec := postJSON(t, h.Join, "/api/waitlist", `{"email":"DUP@example.com"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("second Join() status = %d, want %d", rec.Code, http.StatusConflict)
		}

		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if envelope.Message != "This email is already on the waitlist." {
			t.Errorf("message = %q, want duplicate waitlist message", envelope.Message)
		}
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		h := NewWaitlistHandler(&fakeWaitlist{}, zap.NewNop())
		rec := postJSON(t, h.Join, "/api/waitlist", `{"email":"not-an-email"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Join() status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}
