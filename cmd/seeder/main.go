package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	for _, key := range []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN", "DB_NAME"} {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	if config["TURSO_PRIMARY_URL"] == "" && config["DB_NAME"] == "" {
		log.Fatal("Either TURSO_PRIMARY_URL or DB_NAME must be set.")
	}
	return config
}

func openDB(cfg map[string]string) (*sql.DB, error) {
	if cfg["TURSO_PRIMARY_URL"] != "" {
		dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
		return sql.Open("libsql", dbURL)
	}
	return sql.Open("sqlite3", cfg["DB_NAME"])
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, err := openDB(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %s", err)
	}
	log.Info("Successfully connected to the database.")

	gameID := uuid.NewString()
	_, err = db.Exec("INSERT OR IGNORE INTO games (id, name, abv, slug) VALUES (?, ?, ?, ?)", gameID, "Tekken 8", "T8", "tekken-8")
	if err != nil {
		log.Fatalf("Failed to insert game: %s", err)
	}

	// The owner row has to exist before the ladder references it.
	_, err = db.Exec("INSERT OR IGNORE INTO players (id, name) VALUES (?, ?)", "seed-player-1", "Seeder Player 1")
	if err != nil {
		log.Fatalf("Failed to insert owner player: %s", err)
	}

	ladderID := uuid.NewString()
	_, err = db.Exec(`INSERT OR IGNORE INTO ladders
		(id, name, slug, game_id, owner_id, description, privacy, signups, max_players, up_range, down_range, response_timeout_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, 0, 2, 2, 3, ?)`,
		ladderID, "Seeder Ladder", "seeder-ladder", gameID, "seed-player-1", "Generated by the seeder", "open", time.Now().Unix())
	if err != nil {
		log.Fatalf("Failed to insert ladder: %s", err)
	}
	log.Info("Ensured seed game and ladder exist.", "ladderID", ladderID)

	const numPlayers = 20

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}
	defer tx.Rollback()

	for i := 1; i <= numPlayers; i++ {
		playerID := fmt.Sprintf("seed-player-%d", i)
		name := fmt.Sprintf("Seeder Player %d", i)
		if _, err := tx.Exec("INSERT OR IGNORE INTO players (id, name) VALUES (?, ?)", playerID, name); err != nil {
			log.Fatalf("Failed to insert player %s: %s", name, err)
		}
		if _, err := tx.Exec("INSERT OR IGNORE INTO ranks (ladder_id, player_id, position, arrow, joined_at) VALUES (?, ?, ?, 'UP', ?)",
			ladderID, playerID, i, time.Now().Unix()); err != nil {
			log.Fatalf("Failed to insert rank for %s: %s", name, err)
		}
	}
	log.Info("Inserted seed players and ranks.", "count", numPlayers)

	// A spread of completed challenges with their matches, so listings and
	// history pages have something to show.
	const numMatches = 50
	startTime := time.Now()
	for i := 0; i < numMatches; i++ {
		challengerPos := rand.Intn(numPlayers-2) + 2
		challengeePos := challengerPos - 1 - rand.Intn(2)
		challengerID := fmt.Sprintf("seed-player-%d", challengerPos)
		challengeeID := fmt.Sprintf("seed-player-%d", challengeePos)

		challengeID := uuid.NewString()
		matchID := uuid.NewString()
		created := time.Now().UTC().AddDate(0, 0, -rand.Intn(60))
		completed := created.AddDate(0, 0, 1+rand.Intn(3))

		if _, err := tx.Exec(`INSERT INTO challenges (id, ladder_id, challenger_id, challengee_id, status, note, created_at, updated_at)
			VALUES (?, ?, ?, ?, 'COMPLETED', '', ?, ?)`,
			challengeID, ladderID, challengerID, challengeeID, created.Unix(), completed.Unix()); err != nil {
			log.Fatalf("Failed to insert challenge: %s", err)
		}

		winnerID := challengerID
		if rand.Intn(2) == 0 {
			winnerID = challengeeID
		}
		if _, err := tx.Exec(`INSERT INTO matches
			(id, challenge_id, ladder_id, challenger_id, challenger_rank, challengee_id, challengee_rank, winner_id, winner_rank, winner_arrow, forfeit, date_challenged, date_complete)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'UP', 0, ?, ?)`,
			matchID, challengeID, ladderID, challengerID, challengerPos, challengeeID, challengeePos, winnerID, challengeePos, created.Unix(), completed.Unix()); err != nil {
			log.Fatalf("Failed to insert match: %s", err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	log.Info("Seeding complete.", "matches", numMatches, "duration", time.Since(startTime))
}
