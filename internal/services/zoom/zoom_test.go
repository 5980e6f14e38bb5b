package zoom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryzerecruiting/api/internal/models"
)

func TestSlotTo24Hour(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slot    string
		want    string
		wantErr bool
	}{
		{slot: "9:00 AM", want: "09:00:00"},
		{slot: "12:00 PM", want: "12:00:00"},
		{slot: "12:30 AM", want: "00:30:00"},
		{slot: "4:30 PM", want: "16:30:00"},
		{slot: "25:00", wantErr: true},
		{slot: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.slot, func(t *testing.T) {
			t.Parallel()
			got, err := slotTo24Hour(tt.slot)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.slot)
				}
				return
			}
			if err != nil {
				t.Fatalf("slotTo24Hour(%q) returned error: %v", tt.slot, err)
			}
			if got != tt.want {
				t.Errorf("slotTo24Hour(%q) = %q, want %q", tt.slot, got, tt.want)
			}
		})
	}
}

func TestCreateMeeting(t *testing.T) {
	t.Parallel()

	var gotTokenAuth string
	var gotMeeting map[string]interface{}

	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTokenAuth = r.Header.Get("Authorization")
		if r.URL.Query().Get("grant_type") != "account_credentials" {
			t.Errorf("unexpected grant_type %q", r.URL.Query().Get("grant_type"))
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-access-token",
			"expires_in":   3600,
		})
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/meetings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-access-token" {
			t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotMeeting); err != nil {
			t.Errorf("failed to decode meeting payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       int64(987654321),
			"join_url": "https://zoom.us/j/987654321",
		})
	}))
	defer api.Close()

	client := NewClient("account", "client", "secret")
	client.authURL = auth.URL
	client.apiBaseURL = api.URL

	date, err := models.ParseDate("2026-03-02")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}

	joinURL, meetingID, err := client.CreateMeeting(context.Background(), "Discovery Call with Acme", date, "9:00 AM")
	if err != nil {
		t.Fatalf("CreateMeeting returned error: %v", err)
	}
	if joinURL != "https://zoom.us/j/987654321" {
		t.Errorf("unexpected join URL %q", joinURL)
	}
	if meetingID != "987654321" {
		t.Errorf("unexpected meeting ID %q", meetingID)
	}
	if gotTokenAuth == "" {
		t.Error("expected basic auth on the token request")
	}
	if gotMeeting["start_time"] != "2026-03-02T09:00:00" {
		t.Errorf("unexpected start_time %v", gotMeeting["start_time"])
	}
	if gotMeeting["timezone"] != meetingTimezone {
		t.Errorf("unexpected timezone %v", gotMeeting["timezone"])
	}
}

func TestCreateMeetingFailures(t *testing.T) {
	t.Parallel()

	t.Run("unconfigured", func(t *testing.T) {
		t.Parallel()
		client := NewClient("", "", "")
		date, _ := models.ParseDate("2026-03-02")
		if _, _, err := client.CreateMeeting(context.Background(), "topic", date, "9:00 AM"); err == nil {
			t.Error("expected error when credentials are missing")
		}
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "tok",
				"expires_in":   3600,
			})
		}))
		defer auth.Close()
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer api.Close()

		client := NewClient("account", "client", "secret")
		client.authURL = auth.URL
		client.apiBaseURL = api.URL

		date, _ := models.ParseDate("2026-03-02")
		if _, _, err := client.CreateMeeting(context.Background(), "topic", date, "9:00 AM"); err == nil {
			t.Error("expected error on non-201 response")
		}
	})
}
