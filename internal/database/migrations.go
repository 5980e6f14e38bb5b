package database

import (
	"context"
	"fmt"
)

// migration is a single forward schema step. Migrations are applied in order
// and tracked in the schema_migrations table.
type migration struct {
	version int
	name    string
	up      string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create_users",
		up: `
			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				full_name TEXT,
				password_hash TEXT,
				role TEXT NOT NULL DEFAULT 'employer',
				oauth_provider TEXT,
				oauth_provider_id TEXT,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				is_admin BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_users_oauth
				ON users (oauth_provider, oauth_provider_id);
		`,
	},
	{
		version: 2,
		name:    "create_employer_profiles",
		up: `
			CREATE TABLE IF NOT EXISTS employer_profiles (
				id UUID PRIMARY KEY,
				user_id UUID REFERENCES users(id),
				company_name TEXT NOT NULL,
				website_url TEXT,
				primary_contact_email TEXT,
				phone TEXT,
				ai_industry TEXT,
				ai_company_size TEXT,
				ai_company_overview TEXT,
				ai_hiring_needs TEXT,
				ai_talking_points TEXT,
				ai_red_flags TEXT,
				ai_brief_raw TEXT,
				ai_brief_updated_at TIMESTAMPTZ,
				recruiter_notes TEXT,
				relationship_status TEXT NOT NULL DEFAULT 'prospect',
				tenant_id UUID,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_employer_profiles_company_name
				ON employer_profiles (company_name);
		`,
	},
	{
		version: 3,
		name:    "create_bookings",
		up: `
			CREATE TABLE IF NOT EXISTS bookings (
				id UUID PRIMARY KEY,
				employer_id UUID NOT NULL REFERENCES users(id),
				employer_name TEXT NOT NULL,
				employer_email TEXT NOT NULL,
				company_name TEXT,
				website_url TEXT,
				date DATE NOT NULL,
				time_slot TEXT NOT NULL,
				phone TEXT,
				notes TEXT,
				status TEXT NOT NULL DEFAULT 'pending',
				meeting_url TEXT,
				calendar_event_id TEXT,
				employer_profile_id UUID REFERENCES employer_profiles(id),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings (date);
			CREATE INDEX IF NOT EXISTS idx_bookings_employer_id
				ON bookings (employer_id);
		`,
	},
	{
		version: 4,
		name:    "create_waitlist",
		up: `
			CREATE TABLE IF NOT EXISTS waitlist (
				id UUID PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				source TEXT NOT NULL DEFAULT 'landing_page',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		version: 5,
		name:    "create_contacts",
		up: `
			CREATE TABLE IF NOT EXISTS contacts (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				message TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		version: 6,
		name:    "create_operational_config",
		up: `
			CREATE TABLE IF NOT EXISTS cors_config (
				config_key TEXT PRIMARY KEY,
				allowed_origins TEXT NOT NULL,
				allow_credentials BOOLEAN NOT NULL DEFAULT TRUE,
				max_age INTEGER NOT NULL DEFAULT 300,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE TABLE IF NOT EXISTS ratelimit_config (
				config_key TEXT PRIMARY KEY,
				rate TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
}

// Migrate applies all pending migrations in version order.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := db.migrationApplied(ctx, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}

		if _, err := tx.ExecContext(ctx, m.up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
			m.version, m.name,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	return nil
}

func (db *DB) migrationApplied(ctx context.Context, version int) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`,
		version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %d: %w", version, err)
	}
	return exists, nil
}
