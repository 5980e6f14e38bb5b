package validation

import "testing"

func TestValidateBookingStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "pending"},
		{value: "confirmed"},
		{value: "cancelled"},
		{value: "archived", wantErr: true},
		{value: "", wantErr: true},
		{value: "Confirmed", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			err := ValidateBookingStatus(tt.value)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for %q", tt.value)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for %q: %v", tt.value, err)
			}
		})
	}
}

func TestStructValidators(t *testing.T) {
	t.Parallel()

	type payload struct {
		Role     string `validate:"signup_role"`
		Date     string `validate:"booking_date"`
		TimeSlot string `validate:"time_slot"`
		RelState string `validate:"relationship_status"`
	}

	valid := payload{Role: "employer", Date: "2026-03-02", TimeSlot: "9:00 AM", RelState: "prospect"}
	if err := Validate.Struct(valid); err != nil {
		t.Errorf("unexpected error for valid payload: %v", err)
	}

	tests := []struct {
		name    string
		payload payload
	}{
		{name: "admin role rejected", payload: payload{Role: "admin", Date: "2026-03-02", TimeSlot: "9:00 AM", RelState: "prospect"}},
		{name: "bad date", payload: payload{Role: "employer", Date: "03/02/2026", TimeSlot: "9:00 AM", RelState: "prospect"}},
		{name: "bad slot", payload: payload{Role: "employer", Date: "2026-03-02", TimeSlot: "27:00", RelState: "prospect"}},
		{name: "bad relationship", payload: payload{Role: "employer", Date: "2026-03-02", TimeSlot: "9:00 AM", RelState: "friend"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := Validate.Struct(tt.payload); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trims whitespace", in: "  hello  ", want: "hello"},
		{name: "keeps newlines and tabs", in: "a\n\tb", want: "a\n\tb"},
		{name: "drops control characters", in: "a\x00b\x1fc", want: "abc"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.in); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
