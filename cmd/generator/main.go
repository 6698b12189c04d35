package main

import (
	"crypto/sha256"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"kinoteka/internal/config"
	"kinoteka/internal/database"
	"kinoteka/internal/logger"
	"kinoteka/internal/models"
)

var (
	clearExisting  = flag.Bool("clear", false, "Clear existing screenings and tickets before seeding")
	screeningCount = flag.Int("screenings", 3, "Number of screenings to generate per movie")
	dryRun         = flag.Bool("dry-run", false, "Show what would be generated without making changes")
)

type SeedGenerator struct {
	db *database.DB
}

var seedMovies = []struct {
	title    string
	director string
	year     int
}{
	{"Stalker", "Andrei Tarkovsky", 1979},
	{"Seven Samurai", "Akira Kurosawa", 1954},
	{"The Third Man", "Carol Reed", 1949},
	{"Playtime", "Jacques Tati", 1967},
	{"Come and See", "Elem Klimov", 1985},
	{"In the Mood for Love", "Wong Kar-wai", 2000},
}

var seedUsers = []struct {
	username    string
	password    string
	displayName string
	role        string
}{
	{"admin", "admin123", "Administrator", models.RoleAdmin},
	{"alice", "alice123", "Alice", models.RoleUser},
	{"bob", "bob123", "Bob", models.RoleUser},
	{"carol", "carol123", "Carol", models.RoleUser},
}

func main() {
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	slog.Info("Starting seed generator...")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	generator := &SeedGenerator{db: db}

	if err := generator.Seed(); err != nil {
		slog.Error("Failed to seed database", "error", err)
		os.Exit(1)
	}

	slog.Info("Seeding completed successfully!")
}

func (g *SeedGenerator) Seed() error {
	if *clearExisting {
		if err := g.clear(); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	if err := g.seedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	movieIDs, err := g.seedMovies()
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	if err := g.seedScreenings(movieIDs); err != nil {
		return fmt.Errorf("failed to seed screenings: %w", err)
	}

	return nil
}

func (g *SeedGenerator) clear() error {
	if *dryRun {
		slog.Info("[DRY RUN] Would delete all tickets and screenings")
		return nil
	}

	// Tickets go first; screenings cascade from movies otherwise
	for _, table := range []string{"tickets", "screenings"} {
		if _, err := g.db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return err
		}
		slog.Info("Cleared table", "table", table)
	}
	return nil
}

func (g *SeedGenerator) seedUsers() error {
	for _, u := range seedUsers {
		var existingID int64
		err := g.db.QueryRow("SELECT id FROM users WHERE username = $1", u.username).Scan(&existingID)
		if err == nil {
			slog.Info("User already exists, skipping", "username", u.username)
			continue
		}
		if err != sql.ErrNoRows {
			return err
		}

		if *dryRun {
			slog.Info("[DRY RUN] Would create user", "username", u.username, "role", u.role)
			continue
		}

		passwordHash := fmt.Sprintf("%x", sha256.Sum256([]byte(u.password)))
		_, err = g.db.Exec(`
			INSERT INTO users (username, password_hash, display_name, role)
			VALUES ($1, $2, $3, $4)`,
			u.username, passwordHash, u.displayName, u.role)
		if err != nil {
			return err
		}
		slog.Info("Created user", "username", u.username, "role", u.role)
	}
	return nil
}

func (g *SeedGenerator) seedMovies() ([]int64, error) {
	var ids []int64
	for _, m := range seedMovies {
		var existingID int64
		err := g.db.QueryRow("SELECT id FROM movies WHERE title = $1", m.title).Scan(&existingID)
		if err == nil {
			slog.Info("Movie already exists, skipping", "title", m.title)
			ids = append(ids, existingID)
			continue
		}
		if err != sql.ErrNoRows {
			return nil, err
		}

		if *dryRun {
			slog.Info("[DRY RUN] Would create movie", "title", m.title)
			continue
		}

		var id int64
		err = g.db.QueryRow(`
			INSERT INTO movies (title, director, year)
			VALUES ($1, $2, $3)
			RETURNING id`,
			m.title, m.director, m.year).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		slog.Info("Created movie", "movie_id", id, "title", m.title)
	}
	return ids, nil
}

func (g *SeedGenerator) seedScreenings(movieIDs []int64) error {
	for _, movieID := range movieIDs {
		for i := 0; i < *screeningCount; i++ {
			// Evening slots spread over the coming two weeks
			day := rand.Intn(14) + 1
			hour := 17 + rand.Intn(5)
			startsAt := time.Now().AddDate(0, 0, day).Truncate(time.Hour)
			startsAt = time.Date(startsAt.Year(), startsAt.Month(), startsAt.Day(), hour, 0, 0, 0, startsAt.Location())

			allocation := 20 + rand.Intn(81)

			if *dryRun {
				slog.Info("[DRY RUN] Would create screening",
					"movie_id", movieID, "starts_at", startsAt, "allocation", allocation)
				continue
			}

			var id int64
			err := g.db.QueryRow(`
				INSERT INTO screenings (movie_id, starts_at, ticket_allocation)
				VALUES ($1, $2, $3)
				RETURNING id`,
				movieID, startsAt, allocation).Scan(&id)
			if err != nil {
				return err
			}
			slog.Info("Created screening",
				"screening_id", id, "movie_id", movieID, "starts_at", startsAt, "allocation", allocation)
		}
	}
	return nil
}
