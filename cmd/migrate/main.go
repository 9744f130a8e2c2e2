// Command migrate applies the database schema. Statements are idempotent, so
// running it repeatedly is safe.
package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/voicereach/voicereach-backend/internal/config"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS campaigns (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		execution_status TEXT NOT NULL DEFAULT 'draft',
		daily_cap INTEGER NOT NULL DEFAULT 0,
		current_daily_calls INTEGER NOT NULL DEFAULT 0,
		calling_days TEXT[] NOT NULL DEFAULT '{}',
		start_hour INTEGER NOT NULL DEFAULT 0,
		end_hour INTEGER NOT NULL DEFAULT 0,
		contact_source TEXT NOT NULL,
		contact_list_id UUID,
		contact_file_id UUID,
		assistant_id TEXT NOT NULL,
		prompt TEXT NOT NULL DEFAULT '',
		dialing_region TEXT NOT NULL DEFAULT 'GB',
		dials INTEGER NOT NULL DEFAULT 0,
		total_calls_made INTEGER NOT NULL DEFAULT 0,
		total_calls_answered INTEGER NOT NULL DEFAULT 0,
		paused_reason TEXT,
		last_execution_at TIMESTAMPTZ,
		next_call_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_campaigns_due
		ON campaigns (next_call_at)
		WHERE execution_status = 'running'`,

	`CREATE TABLE IF NOT EXISTS contacts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		contact_list_id UUID NOT NULL,
		phone TEXT NOT NULL,
		name TEXT,
		first_name TEXT,
		last_name TEXT,
		email TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_contacts_list
		ON contacts (contact_list_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS contact_files (
		id UUID PRIMARY KEY,
		filename TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS contact_file_rows (
		id BIGSERIAL PRIMARY KEY,
		contact_file_id UUID NOT NULL REFERENCES contact_files(id),
		row_number INTEGER NOT NULL,
		phone TEXT NOT NULL,
		name TEXT,
		first_name TEXT,
		last_name TEXT,
		email TEXT,
		do_not_call BOOLEAN NOT NULL DEFAULT FALSE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_contact_file_rows_file
		ON contact_file_rows (contact_file_id, row_number)`,

	`CREATE TABLE IF NOT EXISTS campaign_calls (
		id UUID PRIMARY KEY,
		campaign_id UUID NOT NULL REFERENCES campaigns(id),
		contact_id UUID,
		phone_number TEXT NOT NULL,
		contact_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		outcome TEXT,
		call_sid TEXT,
		room_name TEXT,
		notes TEXT,
		started_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_campaign_calls_campaign
		ON campaign_calls (campaign_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS call_queue (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		campaign_id UUID NOT NULL,
		campaign_call_id UUID,
		status TEXT NOT NULL DEFAULT 'queued',
		priority INTEGER NOT NULL DEFAULT 0,
		scheduled_for TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_call_queue_campaign_status
		ON call_queue (campaign_id, status)`,

	`CREATE TABLE IF NOT EXISTS phone_numbers (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		phone_number TEXT NOT NULL,
		assistant_id TEXT NOT NULL,
		trunk_id TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_phone_numbers_assistant
		ON phone_numbers (assistant_id) WHERE active = TRUE`,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to ping database: %v\n", err)
		os.Exit(1)
	}

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			fmt.Fprintf(os.Stderr, "statement %d failed: %v\n", i+1, err)
			os.Exit(1)
		}
	}

	fmt.Printf("schema applied (%d statements)\n", len(statements))
}
