package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/models"
	"github.com/ryzerecruiting/api/internal/request"
	"github.com/ryzerecruiting/api/internal/services/booking"
	"go.uber.org/zap"
)

type fakeBookings struct {
	byID  map[uuid.UUID]*models.Booking
	slots map[string][]string
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{
		byID:  make(map[uuid.UUID]*models.Booking),
		slots: make(map[string][]string),
	}
}

func (f *fakeBookings) Create(ctx context.Context, b *models.Booking) error {
	f.byID[b.ID] = b
	return nil
}

func (f *fakeBookings) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookings) List(ctx context.Context) ([]*models.Booking, error) {
	out := make([]*models.Booking, 0, len(f.byID))
	for _, b := range f.byID {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookings) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range f.byID {
		if b.EmployerID == employerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) TakenSlots(ctx context.Context, date models.Date) ([]string, error) {
	slots := f.slots[date.Format(models.DateLayout)]
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}

func (f *fakeBookings) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeBookings) Transition(ctx context.Context, id uuid.UUID, fn database.BookingTransitionFunc) (*models.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *b
	if err := fn(ctx, &copied, nil); err != nil {
		return nil, err
	}
	f.byID[id] = &copied
	return &copied, nil
}

// newTestBookingHandler wires a handler over a fake store with no external
// integrations configured.
func newTestBookingHandler(store database.BookingStore) *BookingHandler {
	svc := booking.NewService(store, nil, nil, nil, nil, zap.NewNop())
	return NewBookingHandler(svc, zap.NewNop())
}

func TestAvailability(t *testing.T) {
	store := newFakeBookings()
	store.slots["2026-03-02"] = []string{"9:00 AM", "10:00 AM"}
	h := newTestBookingHandler(store)

	r := mux.NewRouter()
	r.HandleFunc("/api/bookings/availability/{date}", h.Availability).Methods("GET")

	t.Run("returns booked slots", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/availability/2026-03-02", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Availability() status = %d, want %d", rec.Code, http.StatusOK)
		}

		var envelope struct {
			Data AvailabilityResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if envelope.Data.Date != "2026-03-02" {
			t.Errorf("date = %q, want %q", envelope.Data.Date, "2026-03-02")
		}
		if len(envelope.Data.BookedSlots) != 2 {
			t.Errorf("booked_slots = %v, want 2 entries", envelope.Data.BookedSlots)
		}
	})

	t.Run("empty date has no booked slots", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/availability/2026-03-03", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Availability() status = %d, want %d", rec.Code, http.StatusOK)
		}

		var envelope struct {
			Data AvailabilityResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if envelope.Data.BookedSlots == nil || len(envelope.Data.BookedSlots) != 0 {
			t.Errorf("booked_slots = %v, want empty list", envelope.Data.BookedSlots)
		}
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/availability/03-02-2026", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Availability() status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestCreateBooking(t *testing.T) {
	employer := &models.User{
		ID:       uuid.New(),
		Email:    "employer@example.com",
		Role:     models.RoleEmployer,
		IsActive: true,
	}

	do := func(t *testing.T, h *BookingHandler, body string, user *models.User) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString(body))
		if user != nil {
			req = req.WithContext(request.WithUser(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		h.Create(rec, req)
		return rec
	}

	t.Run("creates a pending booking", func(t *testing.T) {
		store := newFakeBookings()
		h := newTestBookingHandler(store)
		body := `{"company_name":"Acme","date":"2026-03-02","time_slot":"9:00 AM"}`

		rec := do(t, h, body, employer)
		if rec.Code != http.StatusCreated {
			t.Fatalf("Create() status = %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var envelope struct {
			Data models.Booking `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if envelope.Data.Status != models.BookingPending {
			t.Errorf("status = %q, want %q", envelope.Data.Status, models.BookingPending)
		}
		if envelope.Data.EmployerEmail != employer.Email {
			t.Errorf("employer_email = %q, want %q", envelope.Data.EmployerEmail, employer.Email)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		h := newTestBookingHandler(newFakeBookings())
		rec := do(t, h, `{"date":"2026-03-02","time_slot":"9:00 AM"}`, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Create() status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("rejects a bad time slot", func(t *testing.T) {
		h := newTestBookingHandler(newFakeBookings())
		rec := do(t, h, `{"date":"2026-03-02","time_slot":"nineish"}`, employer)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Create() status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects a bad date", func(t *testing.T) {
		h := newTestBookingHandler(newFakeBookings())
		rec := do(t, h, `{"date":"03/02/2026","time_slot":"9:00 AM"}`, employer)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Create() status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestSetStatus(t *testing.T) {
	patch := func(t *testing.T, h *BookingHandler, id, body string) *httptest.ResponseRecorder {
		t.Helper()
		r := mux.NewRouter()
		r.HandleFunc("/api/bookings/{id}/status", h.SetStatus).Methods("PATCH")
		req := httptest.NewRequest(http.MethodPatch, "/api/bookings/"+id+"/status", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("unknown booking is not found", func(t *testing.T) {
		h := newTestBookingHandler(newFakeBookings())
		rec := patch(t, h, uuid.NewString(), `{"status":"cancelled"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("SetStatus() status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		h := newTestBookingHandler(newFakeBookings())
		rec := patch(t, h, uuid.NewString(), `{"status":"approved"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("SetStatus() status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("invalid id is rejected", func(t *testing.T) {
		h := newTestBookingHandler(newFakeBookings())
		rec := patch(t, h, "not-a-uuid", `{"status":"cancelled"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("SetStatus() status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("confirmation without conferencing is a bad gateway", func(t *testing.T) {
		store := newFakeBookings()
		id := uuid.New()
		store.byID[id] = &models.Booking{
			ID:         id,
			EmployerID: uuid.New(),
			Status:     models.BookingPending,
			TimeSlot:   "9:00 AM",
		}
		h := newTestBookingHandler(store)

		rec := patch(t, h, id.String(), `{"status":"confirmed"}`)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("SetStatus() status = %d, want %d", rec.Code, http.StatusBadGateway)
		}
		if store.byID[id].Status != models.BookingPending {
			t.Errorf("booking status = %q, want unchanged %q", store.byID[id].Status, models.BookingPending)
		}
	})

	t.Run("cancellation succeeds", func(t *testing.T) {
		store := newFakeBookings()
		id := uuid.New()
		store.byID[id] = &models.Booking{
			ID:         id,
			EmployerID: uuid.New(),
			Status:     models.BookingPending,
			TimeSlot:   "9:00 AM",
		}
		h := newTestBookingHandler(store)

		rec := patch(t, h, id.String(), `{"status":"cancelled"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("SetStatus() status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		if store.byID[id].Status != models.BookingCancelled {
			t.Errorf("booking status = %q, want %q", store.byID[id].Status, models.BookingCancelled)
		}
	})
}
