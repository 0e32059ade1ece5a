// Package storage provides SQLite-based persistence for finished battle
// and duel results. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/itsrainingtacos/arcabloom/internal/session"
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// BattleRecord is one finished single-player battle.
type BattleRecord struct {
	ID         int64
	BattleID   string
	PlayerID   string
	TacoID     string
	TacoLevel  int
	EnemyID    string
	EnemyLevel int
	Outcome    string // "won", "lost", "fled", "timed-out"
	Turns      int
	XPGained   int
	CreatedAt  time.Time
}

// DuelRecord is one finished player-versus-player duel.
type DuelRecord struct {
	ID           int64
	DuelID       string
	ChallengerID string
	TargetID     string
	WinnerID     string // Empty on timeout
	Outcome      string // "won", "timed-out"
	Turns        int
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS battles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			battle_id TEXT NOT NULL UNIQUE,
			player_id TEXT NOT NULL,
			taco_id TEXT NOT NULL,
			taco_level INTEGER NOT NULL DEFAULT 1,
			enemy_id TEXT NOT NULL,
			enemy_level INTEGER NOT NULL DEFAULT 1,
			outcome TEXT NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			xp_gained INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_battles_player ON battles(player_id);
		CREATE INDEX IF NOT EXISTS idx_battles_recent ON battles(created_at DESC);

		CREATE TABLE IF NOT EXISTS duels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			duel_id TEXT NOT NULL UNIQUE,
			challenger_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			winner_id TEXT,
			outcome TEXT NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_duels_challenger ON duels(challenger_id);
		CREATE INDEX IF NOT EXISTS idx_duels_target ON duels(target_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTimestamp handles the two shapes the driver hands back for
// DATETIME columns.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveBattle records a finished battle. Returns the ID of the inserted
// record.
func (s *Store) SaveBattle(rec BattleRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO battles
		 (battle_id, player_id, taco_id, taco_level, enemy_id, enemy_level, outcome, turns, xp_gained)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.BattleID,
		rec.PlayerID,
		rec.TacoID,
		rec.TacoLevel,
		rec.EnemyID,
		rec.EnemyLevel,
		rec.Outcome,
		rec.Turns,
		rec.XPGained,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save battle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveDuel records a finished duel. Returns the ID of the inserted record.
func (s *Store) SaveDuel(rec DuelRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO duels
		 (duel_id, challenger_id, target_id, winner_id, outcome, turns)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.DuelID,
		rec.ChallengerID,
		rec.TargetID,
		rec.WinnerID,
		rec.Outcome,
		rec.Turns,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save duel: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

func (s *Store) queryBattles(query string, args ...any) ([]BattleRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query battles: %w", err)
	}
	defer rows.Close()

	var records []BattleRecord
	for rows.Next() {
		var rec BattleRecord
		var createdAt any
		if err := rows.Scan(
			&rec.ID,
			&rec.BattleID,
			&rec.PlayerID,
			&rec.TacoID,
			&rec.TacoLevel,
			&rec.EnemyID,
			&rec.EnemyLevel,
			&rec.Outcome,
			&rec.Turns,
			&rec.XPGained,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.CreatedAt = parseTimestamp(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// RecentBattles retrieves the most recent battles across all players.
func (s *Store) RecentBattles(limit int) ([]BattleRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryBattles(
		`SELECT id, battle_id, player_id, taco_id, taco_level, enemy_id, enemy_level,
		        outcome, turns, xp_gained, created_at
		 FROM battles
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
}

// PlayerBattles retrieves battle history for a specific player.
func (s *Store) PlayerBattles(playerID string, limit int) ([]BattleRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryBattles(
		`SELECT id, battle_id, player_id, taco_id, taco_level, enemy_id, enemy_level,
		        outcome, turns, xp_gained, created_at
		 FROM battles
		 WHERE player_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		playerID, limit,
	)
}

// RecentDuels retrieves the most recent duels.
func (s *Store) RecentDuels(limit int) ([]DuelRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, duel_id, challenger_id, target_id, winner_id, outcome, turns, created_at
		 FROM duels
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query duels: %w", err)
	}
	defer rows.Close()

	var records []DuelRecord
	for rows.Next() {
		var rec DuelRecord
		var createdAt any
		var winnerID sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.DuelID,
			&rec.ChallengerID,
			&rec.TargetID,
			&winnerID,
			&rec.Outcome,
			&rec.Turns,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if winnerID.Valid {
			rec.WinnerID = winnerID.String
		}
		rec.CreatedAt = parseTimestamp(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// PlayerStats contains aggregated battle statistics for one player.
type PlayerStats struct {
	PlayerID string
	Battles  int
	Wins     int
	Losses   int
	TotalXP  int64
	LastSeen time.Time
}

// GetPlayerStats aggregates a player's recorded battles.
func (s *Store) GetPlayerStats(playerID string) (*PlayerStats, error) {
	stats := &PlayerStats{PlayerID: playerID}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = 'won' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN outcome = 'lost' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(xp_gained), 0)
		 FROM battles WHERE player_id = ?`,
		playerID,
	).Scan(&stats.Battles, &stats.Wins, &stats.Losses, &stats.TotalXP)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}

	var lastSeen any
	err = s.db.QueryRow(
		`SELECT created_at FROM battles WHERE player_id = ? ORDER BY created_at DESC LIMIT 1`,
		playerID,
	).Scan(&lastSeen)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last battle: %w", err)
	}
	if err == nil {
		stats.LastSeen = parseTimestamp(lastSeen)
	}

	return stats, nil
}

// SaveBattleResult implements session.ResultSaver.
// This adapter lets the session registry record results without a direct
// storage dependency.
func (s *Store) SaveBattleResult(data session.BattleResultData) error {
	_, err := s.SaveBattle(BattleRecord{
		BattleID:   data.BattleID,
		PlayerID:   data.PlayerID,
		TacoID:     data.TacoID,
		TacoLevel:  data.TacoLevel,
		EnemyID:    data.EnemyID,
		EnemyLevel: data.EnemyLevel,
		Outcome:    data.Outcome,
		Turns:      data.Turns,
		XPGained:   data.XPGained,
	})
	return err
}

// SaveDuelResult implements session.ResultSaver.
func (s *Store) SaveDuelResult(data session.DuelResultData) error {
	_, err := s.SaveDuel(DuelRecord{
		DuelID:       data.DuelID,
		ChallengerID: data.ChallengerID,
		TargetID:     data.TargetID,
		WinnerID:     data.WinnerID,
		Outcome:      data.Outcome,
		Turns:        data.Turns,
	})
	return err
}

// Ensure Store implements ResultSaver
var _ session.ResultSaver = (*Store)(nil)
