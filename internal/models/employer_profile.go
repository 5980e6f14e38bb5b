package models

import (
	"time"

	"github.com/google/uuid"
)

// Relationship statuses a recruiter can assign to an employer profile.
const (
	RelationshipProspect     = "prospect"
	RelationshipActiveClient = "active_client"
	RelationshipPlaced       = "placed"
	RelationshipInactive     = "inactive"
	RelationshipNotAFit      = "not_a_fit"
)

// EmployerProfile is the intelligence record for a company. The AI* fields
// are filled by the brief service when a booking is confirmed; list fields
// are decoded from their JSON column representation at the repository
// boundary, so callers only ever see []string.
type EmployerProfile struct {
	ID                  uuid.UUID  `json:"id"`
	UserID              *uuid.UUID `json:"user_id,omitempty"`
	CompanyName         string     `json:"company_name"`
	WebsiteURL          *string    `json:"website_url,omitempty"`
	PrimaryContactEmail *string    `json:"primary_contact_email,omitempty"`
	Phone               *string    `json:"phone,omitempty"`
	AIIndustry          *string    `json:"ai_industry,omitempty"`
	AICompanySize       *string    `json:"ai_company_size,omitempty"`
	AICompanyOverview   *string    `json:"ai_company_overview,omitempty"`
	AIHiringNeeds       []string   `json:"ai_hiring_needs"`
	AITalkingPoints     []string   `json:"ai_talking_points"`
	AIRedFlags          *string    `json:"ai_red_flags,omitempty"`
	AIBriefRaw          *string    `json:"ai_brief_raw,omitempty"`
	AIBriefUpdatedAt    *time.Time `json:"ai_brief_updated_at,omitempty"`
	RecruiterNotes      *string    `json:"recruiter_notes,omitempty"`
	RelationshipStatus  string     `json:"relationship_status"`
	TenantID            *uuid.UUID `json:"tenant_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
