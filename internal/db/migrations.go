package db

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pdxmph/contact-form/internal/contacts"
)

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	// Databases created outside Initialize may lack the slots table
	if err := db.runSlotsTableMigration(); err != nil {
		return err
	}

	// Records saved before IDs existed get one now
	if err := db.runRecordIDMigration(); err != nil {
		return err
	}

	return nil
}

func (db *DB) runSlotsTableMigration() error {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*)
		FROM sqlite_master
		WHERE type = 'table' AND name = 'slots'
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking for slots table: %w", err)
	}

	if count == 0 {
		log.Info().Msg("running migration: creating slots table")
		if _, err := db.conn.Exec(schema); err != nil {
			return fmt.Errorf("creating slots table: %w", err)
		}
		log.Info().Msg("migration completed successfully")
	}

	return nil
}

func (db *DB) runRecordIDMigration() error {
	n, err := contacts.AssignMissingIDs(db)
	if err != nil {
		return fmt.Errorf("assigning record ids: %w", err)
	}
	if n > 0 {
		log.Info().Int("records", n).Msg("migration: assigned ids to existing contacts")
	}
	return nil
}
