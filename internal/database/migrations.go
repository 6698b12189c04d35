package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createMoviesTable,
		createUsersTable,
		createScreeningsTable,
		createTicketsTable,
		createScreeningsTimestampIndex,
		createTicketsScreeningIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createMoviesTable = `
CREATE TABLE IF NOT EXISTS movies (
    id SERIAL PRIMARY KEY,
    title VARCHAR(500) NOT NULL,
    director VARCHAR(255),
    year INTEGER,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    display_name VARCHAR(255) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('user', 'admin'))
);`

// ticket_allocation > 0 is the schema-level second line of defense behind
// the validation layer.
const createScreeningsTable = `
CREATE TABLE IF NOT EXISTS screenings (
    id SERIAL PRIMARY KEY,
    movie_id INTEGER NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
    starts_at TIMESTAMP NOT NULL,
    ticket_allocation INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (ticket_allocation > 0)
);`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    screening_id INTEGER NOT NULL REFERENCES screenings(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createScreeningsTimestampIndex = `
CREATE INDEX IF NOT EXISTS screenings_starts_at_idx
ON screenings (starts_at);`

const createTicketsScreeningIndex = `
CREATE INDEX IF NOT EXISTS tickets_screening_id_idx
ON tickets (screening_id);`
