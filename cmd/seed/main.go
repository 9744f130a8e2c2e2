// Command seed loads development fixtures: a trunk mapping, a contact list
// with a few UK numbers and a draft campaign pointing at them.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/voicereach/voicereach-backend/internal/config"
)

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

	if err := seed(db); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("seed data loaded")
}

func seed(db *sql.DB) error {
	const assistantID = "asst-demo"

	_, err := db.Exec(`
		INSERT INTO phone_numbers (phone_number, assistant_id, trunk_id, active)
		VALUES ($1, $2, $3, TRUE)`,
		"+442071234567", assistantID, "trunk-demo",
	)
	if err != nil {
		return fmt.Errorf("failed to seed phone number: %w", err)
	}

	listID := uuid.New().String()
	contacts := []struct {
		phone, first, last string
	}{
		{"07911123456", "Alice", "Archer"},
		{"07911123457", "Bob", "Builder"},
		{"447911123458", "Carol", "Chen"},
	}
	for _, c := range contacts {
		_, err := db.Exec(`
			INSERT INTO contacts (contact_list_id, phone, first_name, last_name)
			VALUES ($1, $2, $3, $4)`,
			listID, c.phone, c.first, c.last,
		)
		if err != nil {
			return fmt.Errorf("failed to seed contact: %w", err)
		}
	}

	_, err = db.Exec(`
		INSERT INTO campaigns (
			id, name, execution_status, daily_cap, calling_days, start_hour,
			end_hour, contact_source, contact_list_id, assistant_id, prompt,
			dialing_region
		)
		VALUES ($1, $2, 'draft', $3, $4, $5, $6, 'contact_list', $7, $8, $9, 'GB')`,
		uuid.New().String(),
		"Demo Outreach",
		25,
		pq.Array([]string{"monday", "tuesday", "wednesday", "thursday", "friday"}),
		9, 17,
		listID,
		assistantID,
		"You are a friendly assistant calling to follow up on a recent enquiry.",
	)
	if err != nil {
		return fmt.Errorf("failed to seed campaign: %w", err)
	}

	return nil
}
