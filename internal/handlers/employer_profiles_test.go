package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/models"
	"go.uber.org/zap"
)

type fakeProfiles struct {
	byID map[uuid.UUID]*models.EmployerProfile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byID: make(map[uuid.UUID]*models.EmployerProfile)}
}

func (f *fakeProfiles) GetByID(ctx context.Context, id uuid.UUID) (*models.EmployerProfile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) List(ctx context.Context) ([]*models.EmployerProfile, error) {
	out := make([]*models.EmployerProfile, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfiles) UpdateRecruiterFields(ctx context.Context, id uuid.UUID, notes *string, relationshipStatus *string) (*models.EmployerProfile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if notes != nil {
		p.RecruiterNotes = notes
	}
	if relationshipStatus != nil {
		p.RelationshipStatus = *relationshipStatus
	}
	return p, nil
}

func (f *fakeProfiles) UpsertByCompany(ctx context.Context, p *models.EmployerProfile) (*models.EmployerProfile, error) {
	f.byID[p.ID] = p
	return p, nil
}

func patchProfile(t *testing.T, h *EmployerProfileHandler, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/api/employer-profiles/{id}", h.Update).Methods("PATCH")
	req := httptest.NewRequest(http.MethodPatch, "/api/employer-profiles/"+id, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestEmployerProfileUpdate(t *testing.T) {
	seed := func() (*fakeProfiles, uuid.UUID) {
		store := newFakeProfiles()
		id := uuid.New()
		store.byID[id] = &models.EmployerProfile{
			ID:                 id,
			CompanyName:        "Acme",
			RelationshipStatus: models.RelationshipProspect,
		}
		return store, id
	}

	t.Run("updates recruiter fields", func(t *testing.T) {
		store, id := seed()
		h := NewEmployerProfileHandler(store, zap.NewNop())

		rec := patchProfile(t, h, id.String(), `{"recruiter_notes":"Great lead","relationship_status":"active_client"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("Update() status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		p := store.byID[id]
		if p.RecruiterNotes == nil || *p.RecruiterNotes != "Great lead" {
			t.Errorf("recruiter_notes not updated: %v", p.RecruiterNotes)
		}
		if p.RelationshipStatus != models.RelationshipActiveClient {
			t.Errorf("relationship_status = %q, want %q", p.RelationshipStatus, models.RelationshipActiveClient)
		}
	})

	t.Run("absent fields stay untouched", func(t *testing.T) {
		store, id := seed()
		notes := "existing"
		store.byID[id].RecruiterNotes = &notes
		h := NewEmployerProfileHandler(store, zap.NewNop())

		rec := patchProfile(t, h, id.String(), `{"relationship_status":"placed"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("Update() status = %d, want %d", rec.Code, http.StatusOK)
		}
		p := store.byID[id]
		if p.RecruiterNotes == nil || *p.RecruiterNotes != "existing" {
			t.Errorf("recruiter_notes changed: %v", p.RecruiterNotes)
		}
		if p.RelationshipStatus != models.RelationshipPlaced {
			t.Errorf("relationship_status = %q, want %q", p.RelationshipStatus, models.RelationshipPlaced)
		}
	})

	t.Run("rejects an unknown relationship status", func(t *testing.T) {
		store, id := seed()
		h := NewEmployerProfileHandler(store, zap.NewNop())

		rec := patchProfile(t, h, id.String(), `{"relationship_status":"best_friends"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Update() status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("unknown profile is not found", func(t *testing.T) {
		h := NewEmployerProfileHandler(newFakeProfiles(), zap.NewNop())
		rec := patchProfile(t, h, uuid.NewString(), `{"relationship_status":"placed"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Update() status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}
