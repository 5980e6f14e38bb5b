package oauth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/models"
	"github.com/ryzerecruiting/api/internal/services/credentials"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	users   map[string]*models.User // keyed by email
	updates int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	email := strings.ToLower(user.Email)
	if _, ok := f.users[email]; ok {
		return fmt.Errorf("user %s: %w", email, database.ErrDuplicate)
	}
	f.users[email] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, database.ErrNotFound)
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.users[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", email, database.ErrNotFound)
}

func (f *fakeUserStore) GetByOAuthIdentity(ctx context.Context, provider, providerID string) (*models.User, error) {
	for _, u := range f.users {
		if u.OAuthProvider != nil && *u.OAuthProvider == provider &&
			u.OAuthProviderID != nil && *u.OAuthProviderID == providerID {
			return u, nil
		}
	}
	return nil, fmt.Errorf("oauth identity %s/%s: %w", provider, providerID, database.ErrNotFound)
}

func (f *fakeUserStore) Update(ctx context.Context, user *models.User) error {
	f.users[strings.ToLower(user.Email)] = user
	f.updates++
	return nil
}

type fakeProvider struct {
	profile *Profile
	err     error
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example.com/authorize?state=" + state
}

func (f *fakeProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	return f.profile, f.err
}

type fakeSignupStore struct {
	profiles map[string]*Profile
	next     int
}

func newFakeSignupStore() *fakeSignupStore {
	return &fakeSignupStore{profiles: make(map[string]*Profile)}
}

func (f *fakeSignupStore) Put(ctx context.Context, profile *Profile) (string, error) {
	f.next++
	token := fmt.Sprintf("token-%d", f.next)
	f.profiles[token] = profile
	return token, nil
}

func (f *fakeSignupStore) Take(ctx context.Context, token string) (*Profile, error) {
	profile, ok := f.profiles[token]
	if !ok {
		return nil, ErrSignupTokenNotFound
	}
	delete(f.profiles, token)
	return profile, nil
}

func newTestService(t *testing.T, users *fakeUserStore, store *fakeSignupStore, provider AuthProvider) *Service {
	t.Helper()
	tokens, err := credentials.NewTokenService("test-secret", "ryze-api", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}
	providers := map[string]AuthProvider{ProviderGoogle: provider}
	return NewService(users, tokens, store, providers, zap.NewNop())
}

func TestHandleCallbackNewUserStashesProfile(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	store := newFakeSignupStore()
	provider := &fakeProvider{profile: &Profile{
		Provider:   ProviderGoogle,
		ProviderID: "google-123",
		Email:      "New@Example.com",
		Name:       "New Person",
	}}
	svc := newTestService(t, users, store, provider)

	result, err := svc.HandleCallback(context.Background(), ProviderGoogle, "code")
	if err != nil {
		t.Fatalf("HandleCallback returned error: %v", err)
	}
	if result.SignupToken == "" {
		t.Error("expected a signup token for an unknown user")
	}
	if result.AccessToken != "" {
		t.Error("expected no access token for an unknown user")
	}
	if len(users.users) != 0 {
		t.Error("callback must not create a user before role selection")
	}
}

func TestHandleCallbackExistingIdentityLogsIn(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	provider := "google"
	providerID := "google-123"
	users.users["jane@example.com"] = &models.User{
		ID:              uuid.New(),
		Email:           "jane@example.com",
		Role:            models.RoleEmployer,
		OAuthProvider:   &provider,
		OAuthProviderID: &providerID,
		IsActive:        true,
	}
	store := newFakeSignupStore()
	svc := newTestService(t, users, store, &fakeProvider{profile: &Profile{
		Provider:   ProviderGoogle,
		ProviderID: providerID,
		Email:      "jane@example.com",
	}})

	result, err := svc.HandleCallback(context.Background(), ProviderGoogle, "code")
	if err != nil {
		t.Fatalf("HandleCallback returned error: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("expected an access token for a known identity")
	}
	if result.SignupToken != "" {
		t.Error("expected no signup token for a known identity")
	}
}

func TestHandleCallbackLinksSameEmailAccount(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	hash := "bcrypt-hash"
	users.users["jane@example.com"] = &models.User{
		ID:           uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: &hash,
		Role:         models.RoleEmployer,
		IsActive:     true,
	}
	store := newFakeSignupStore()
	svc := newTestService(t, users, store, &fakeProvider{profile: &Profile{
		Provider:   ProviderGoogle,
		ProviderID: "google-456",
		Email:      "Jane@Example.com",
	}})

	result, err := svc.HandleCallback(context.Background(), ProviderGoogle, "code")
	if err != nil {
		t.Fatalf("HandleCallback returned error: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("expected login for a same-email account")
	}

	linked := users.users["jane@example.com"]
	if linked.OAuthProvider == nil || *linked.OAuthProvider != ProviderGoogle {
		t.Error("expected oauth identity linked onto the existing account")
	}
	if linked.PasswordHash == nil {
		t.Error("linking must not drop the password hash")
	}
}

func TestCompleteSignupCreatesUser(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	store := newFakeSignupStore()
	svc := newTestService(t, users, store, &fakeProvider{})

	token, err := store.Put(context.Background(), &Profile{
		Provider:   ProviderGoogle,
		ProviderID: "google-789",
		Email:      "candidate@example.com",
		Name:       "Casey Candidate",
	})
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	access, user, err := svc.CompleteSignup(context.Background(), token, models.RoleCandidate)
	if err != nil {
		t.Fatalf("CompleteSignup returned error: %v", err)
	}
	if access == "" {
		t.Error("expected an access token")
	}
	if user.Role != models.RoleCandidate {
		t.Errorf("expected role candidate, got %s", user.Role)
	}
	if user.FullName == nil || *user.FullName != "Casey Candidate" {
		t.Error("expected full name from provider profile")
	}

	// The token is single use.
	if _, _, err := svc.CompleteSignup(context.Background(), token, models.RoleCandidate); err != ErrSignupTokenNotFound {
		t.Errorf("expected ErrSignupTokenNotFound on reuse, got %v", err)
	}
}

func TestCompleteSignupExpiredTokenCreatesNothing(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	store := newFakeSignupStore()
	svc := newTestService(t, users, store, &fakeProvider{})

	_, _, err := svc.CompleteSignup(context.Background(), "missing-token", models.RoleEmployer)
	if err != ErrSignupTokenNotFound {
		t.Fatalf("expected ErrSignupTokenNotFound, got %v", err)
	}
	if len(users.users) != 0 {
		t.Error("an expired token must not create a user")
	}
}

func TestCompleteSignupRejectsAdminRole(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeUserStore(), newFakeSignupStore(), &fakeProvider{})

	if _, _, err := svc.CompleteSignup(context.Background(), "any", models.RoleAdmin); err != ErrInvalidRole {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}
