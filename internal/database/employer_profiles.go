package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ryzerecruiting/api/internal/models"
)

// EmployerProfileRepository handles employer profile database operations
type EmployerProfileRepository struct {
	db *DB
}

// NewEmployerProfileRepository creates a new employer profile repository
func NewEmployerProfileRepository(db *DB) *EmployerProfileRepository {
	return &EmployerProfileRepository{db: db}
}

const profileColumns = `id, user_id, company_name, website_url,
	primary_contact_email, phone, ai_industry, ai_company_size,
	ai_company_overview, ai_hiring_needs, ai_talking_points, ai_red_flags,
	ai_brief_raw, ai_brief_updated_at, recruiter_notes, relationship_status,
	tenant_id, created_at, updated_at`

// queryer is satisfied by both *DB and *sql.Tx so the upsert can run inside
// a booking transition transaction.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func scanProfile(row rowScanner) (*models.EmployerProfile, error) {
	p := &models.EmployerProfile{}
	var hiringNeeds, talkingPoints sql.NullString
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.CompanyName,
		&p.WebsiteURL,
		&p.PrimaryContactEmail,
		&p.Phone,
		&p.AIIndustry,
		&p.AICompanySize,
		&p.AICompanyOverview,
		&hiringNeeds,
		&talkingPoints,
		&p.AIRedFlags,
		&p.AIBriefRaw,
		&p.AIBriefUpdatedAt,
		&p.RecruiterNotes,
		&p.RelationshipStatus,
		&p.TenantID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if p.AIHiringNeeds, err = decodeStringList(hiringNeeds); err != nil {
		return nil, fmt.Errorf("failed to decode hiring needs: %w", err)
	}
	if p.AITalkingPoints, err = decodeStringList(talkingPoints); err != nil {
		return nil, fmt.Errorf("failed to decode talking points: %w", err)
	}

	return p, nil
}

// decodeStringList converts the JSON column representation into a []string.
// NULL and malformed legacy values decode to an empty list.
func decodeStringList(v sql.NullString) ([]string, error) {
	if !v.Valid || v.String == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return []string{}, nil
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func encodeStringList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(raw), nil
}

// GetByID retrieves an employer profile by ID
func (r *EmployerProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EmployerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM employer_profiles WHERE id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("employer profile %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employer profile: %w", err)
	}

	return p, nil
}

// List retrieves all employer profiles, newest first.
func (r *EmployerProfileRepository) List(ctx context.Context) ([]*models.EmployerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM employer_profiles ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employer profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	profiles := make([]*models.EmployerProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employer profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employer profiles: %w", err)
	}

	return profiles, nil
}

// UpdateRecruiterFields updates the recruiter-owned fields on a profile.
func (r *EmployerProfileRepository) UpdateRecruiterFields(ctx context.Context, id uuid.UUID, notes *string, relationshipStatus *string) (*models.EmployerProfile, error) {
	query := `
		UPDATE employer_profiles
		SET recruiter_notes = COALESCE($2, recruiter_notes),
			relationship_status = COALESCE($3, relationship_status),
			updated_at = $4
		WHERE id = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id, notes, relationshipStatus, time.Now()))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("employer profile %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update employer profile: %w", err)
	}

	return p, nil
}

// UpsertByCompany inserts or merges a profile keyed by company name within
// the default tenant.
func (r *EmployerProfileRepository) UpsertByCompany(ctx context.Context, p *models.EmployerProfile) (*models.EmployerProfile, error) {
	return upsertProfileByCompany(ctx, r.db, p)
}

// upsertProfileByCompany finds the profile for (company_name, NULL tenant)
// and merges the incoming fields into it, or inserts a fresh row when none
// exists. Merge keeps existing values wherever the incoming field is empty,
// so a failed enrichment never erases earlier intelligence.
func upsertProfileByCompany(ctx context.Context, q queryer, p *models.EmployerProfile) (*models.EmployerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM employer_profiles
		WHERE company_name = $1 AND tenant_id IS NULL
		ORDER BY created_at
		LIMIT 1`

	existing, err := scanProfile(q.QueryRowContext(ctx, query, p.CompanyName))
	if err == sql.ErrNoRows {
		return insertProfile(ctx, q, p)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up employer profile: %w", err)
	}

	mergeProfile(existing, p)

	hiringNeeds, err := encodeStringList(existing.AIHiringNeeds)
	if err != nil {
		return nil, err
	}
	talkingPoints, err := encodeStringList(existing.AITalkingPoints)
	if err != nil {
		return nil, err
	}

	update := `
		UPDATE employer_profiles
		SET user_id = $2, website_url = $3, primary_contact_email = $4,
			phone = $5, ai_industry = $6, ai_company_size = $7,
			ai_company_overview = $8, ai_hiring_needs = $9,
			ai_talking_points = $10, ai_red_flags = $11, ai_brief_raw = $12,
			ai_brief_updated_at = $13, updated_at = $14
		WHERE id = $1
		RETURNING ` + profileColumns

	updated, err := scanProfile(q.QueryRowContext(ctx, update,
		existing.ID,
		existing.UserID,
		existing.WebsiteURL,
		existing.PrimaryContactEmail,
		existing.Phone,
		existing.AIIndustry,
		existing.AICompanySize,
		existing.AICompanyOverview,
		hiringNeeds,
		talkingPoints,
		existing.AIRedFlags,
		existing.AIBriefRaw,
		existing.AIBriefUpdatedAt,
		time.Now(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to merge employer profile: %w", err)
	}

	return updated, nil
}

func insertProfile(ctx context.Context, q queryer, p *models.EmployerProfile) (*models.EmployerProfile, error) {
	hiringNeeds, err := encodeStringList(p.AIHiringNeeds)
	if err != nil {
		return nil, err
	}
	talkingPoints, err := encodeStringList(p.AITalkingPoints)
	if err != nil {
		return nil, err
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.RelationshipStatus == "" {
		p.RelationshipStatus = models.RelationshipProspect
	}

	query := `
		INSERT INTO employer_profiles (id, user_id, company_name, website_url,
			primary_contact_email, phone, ai_industry, ai_company_size,
			ai_company_overview, ai_hiring_needs, ai_talking_points,
			ai_red_flags, ai_brief_raw, ai_brief_updated_at, recruiter_notes,
			relationship_status, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19)
		RETURNING ` + profileColumns

	now := time.Now()
	inserted, err := scanProfile(q.QueryRowContext(ctx, query,
		p.ID,
		p.UserID,
		p.CompanyName,
		p.WebsiteURL,
		p.PrimaryContactEmail,
		p.Phone,
		p.AIIndustry,
		p.AICompanySize,
		p.AICompanyOverview,
		hiringNeeds,
		talkingPoints,
		p.AIRedFlags,
		p.AIBriefRaw,
		p.AIBriefUpdatedAt,
		p.RecruiterNotes,
		p.RelationshipStatus,
		p.TenantID,
		now,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert employer profile: %w", err)
	}

	return inserted, nil
}

// mergeProfile copies non-empty incoming fields onto dst.
func mergeProfile(dst, src *models.EmployerProfile) {
	if src.UserID != nil {
		dst.UserID = src.UserID
	}
	if hasValue(src.WebsiteURL) {
		dst.WebsiteURL = src.WebsiteURL
	}
	if hasValue(src.PrimaryContactEmail) {
		dst.PrimaryContactEmail = src.PrimaryContactEmail
	}
	if hasValue(src.Phone) {
		dst.Phone = src.Phone
	}
	if hasValue(src.AIIndustry) {
		dst.AIIndustry = src.AIIndustry
	}
	if hasValue(src.AICompanySize) {
		dst.AICompanySize = src.AICompanySize
	}
	if hasValue(src.AICompanyOverview) {
		dst.AICompanyOverview = src.AICompanyOverview
	}
	if len(src.AIHiringNeeds) > 0 {
		dst.AIHiringNeeds = src.AIHiringNeeds
	}
	if len(src.AITalkingPoints) > 0 {
		dst.AITalkingPoints = src.AITalkingPoints
	}
	if hasValue(src.AIRedFlags) {
		dst.AIRedFlags = src.AIRedFlags
	}
	if hasValue(src.AIBriefRaw) {
		dst.AIBriefRaw = src.AIBriefRaw
	}
	if src.AIBriefUpdatedAt != nil {
		dst.AIBriefUpdatedAt = src.AIBriefUpdatedAt
	}
}

func hasValue(s *string) bool {
	return s != nil && *s != ""
}
