package brief

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseBrief(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, b Brief)
	}{
		{
			name: "plain json",
			content: `{"company_overview":"Acme builds rockets.","industry":"Aerospace",
				"estimated_size":"50-200","hiring_needs":["Propulsion Engineer"],
				"talking_points":["Recent Series B"],"red_flags":""}`,
			check: func(t *testing.T, b Brief) {
				if b.CompanyOverview != "Acme builds rockets." {
					t.Errorf("unexpected overview %q", b.CompanyOverview)
				}
				if len(b.HiringNeeds) != 1 || b.HiringNeeds[0] != "Propulsion Engineer" {
					t.Errorf("unexpected hiring needs %v", b.HiringNeeds)
				}
				if b.Raw != "" {
					t.Error("expected no raw fallback for valid JSON")
				}
			},
		},
		{
			name: "fenced json",
			content: "```json\n" +
				`{"company_overview":"Fenced.","industry":"SaaS","estimated_size":"10-50",` +
				`"hiring_needs":[],"talking_points":[],"red_flags":""}` +
				"\n```",
			check: func(t *testing.T, b Brief) {
				if b.CompanyOverview != "Fenced." {
					t.Errorf("unexpected overview %q", b.CompanyOverview)
				}
			},
		},
		{
			name:    "json with surrounding prose",
			content: `Here is the brief: {"company_overview":"Embedded.","industry":"","estimated_size":"","hiring_needs":[],"talking_points":[],"red_flags":""} hope that helps`,
			check: func(t *testing.T, b Brief) {
				if b.CompanyOverview != "Embedded." {
					t.Errorf("unexpected overview %q", b.CompanyOverview)
				}
			},
		},
		{
			name:    "unparseable keeps raw text",
			content: "The company appears to be a staffing agency in Ohio.",
			check: func(t *testing.T, b Brief) {
				if b.Raw != "The company appears to be a staffing agency in Ohio." {
					t.Errorf("unexpected raw %q", b.Raw)
				}
				if b.CompanyOverview != "" {
					t.Error("expected no structured fields")
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, parseBrief(tt.content))
		})
	}
}

func TestBriefEmpty(t *testing.T) {
	t.Parallel()

	if !(Brief{}).Empty() {
		t.Error("zero brief should be empty")
	}
	if (Brief{Industry: "SaaS"}).Empty() {
		t.Error("brief with industry should not be empty")
	}
	if (Brief{Raw: "text"}).Empty() {
		t.Error("brief with raw fallback should not be empty")
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "acme.com", want: "https://acme.com"},
		{in: "https://acme.com", want: "https://acme.com"},
		{in: "http://acme.com", want: "http://acme.com"},
	}
	for _, tt := range tests {
		if got := normalizeURL(tt.in); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFetchWebsiteText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><style>body{}</style>
			<script>var x = 1;</script></head>
			<body><nav>Menu</nav><header>Banner</header>
			<main>Acme   builds
			rockets.</main>
			<footer>Copyright</footer></body></html>`))
	}))
	defer srv.Close()

	text, err := fetchWebsiteText(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("fetchWebsiteText returned error: %v", err)
	}
	if text != "Acme builds rockets." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestFetchWebsiteTextTruncates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>" + strings.Repeat("word ", 5000) + "</body></html>"))
	}))
	defer srv.Close()

	text, err := fetchWebsiteText(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("fetchWebsiteText returned error: %v", err)
	}
	if len(text) > maxWebsiteChars {
		t.Errorf("expected at most %d chars, got %d", maxWebsiteChars, len(text))
	}
}

func TestFetchWebsiteTextErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := fetchWebsiteText(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Error("expected error on non-200 response")
	}
}
