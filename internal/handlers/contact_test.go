package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/ryzerecruiting/api/internal/models"
	"go.uber.org/zap"
)

type fakeContacts struct {
	messages []*models.ContactMessage
}

func (f *fakeContacts) Create(ctx context.Context, msg *models.ContactMessage) error {
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeContacts) List(ctx context.Context) ([]*models.ContactMessage, error) {
	return f.messages, nil
}

func TestContactSubmit(t *testing.T) {
	t.Run("stores a message", func(t *testing.T) {
		store := &fakeContacts{}
		h := NewContactHandler(store, zap.NewNop())

		rec := postJSON(t, h.Submit, "/api/contact", `{"name":"Jordan","email":"jordan@example.com","message":"Hi there"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("Submit() status = %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		if len(store.messages) != 1 {
			t.Fatalf("messages = %d, want 1", len(store.messages))
		}
		if store.messages[0].Email != "jordan@example.com" {
			t.Errorf("email = %q, want %q", store.messages[0].Email, "jordan@example.com")
		}
	})

	t.Run("requires all fields", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"missing name", `{"email":"a@example.com","message":"hi"}`},
			{"missing email", `{"name":"A","message":"hi"}`},
			{"missing message", `{"name":"A","email":"a@example.com"}`},
			{"bad email", `{"name":"A","email":"nope","message":"hi"}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := NewContactHandler(&fakeContacts{}, zap.NewNop())
				rec := postJSON(t, h.Submit, "/api/contact", tt.body)
				if rec.Code != http.StatusBadRequest {
					t.Errorf("Submit() status = %d, want %d", rec.Code, http.StatusBadRequest)
				}
			})
		}
	})
}
