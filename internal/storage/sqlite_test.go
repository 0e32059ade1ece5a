package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/itsrainingtacos/arcabloom/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieveBattles(t *testing.T) {
	store := openTestStore(t)

	battles := []BattleRecord{
		{BattleID: "b-1", PlayerID: "alice", TacoID: "CLASSIC", TacoLevel: 1, EnemyID: "FISH", EnemyLevel: 2, Outcome: "won", Turns: 3, XPGained: 20},
		{BattleID: "b-2", PlayerID: "alice", TacoID: "WAGYU", TacoLevel: 4, EnemyID: "GOLD", EnemyLevel: 3, Outcome: "lost", Turns: 5},
		{BattleID: "b-3", PlayerID: "bob", TacoID: "SHRIMP", TacoLevel: 2, EnemyID: "VEGGIE", EnemyLevel: 1, Outcome: "fled", Turns: 0},
	}
	for _, rec := range battles {
		if _, err := store.SaveBattle(rec); err != nil {
			t.Fatalf("SaveBattle(%s) failed: %v", rec.BattleID, err)
		}
	}

	aliceBattles, err := store.PlayerBattles("alice", 10)
	if err != nil {
		t.Fatalf("PlayerBattles() failed: %v", err)
	}
	if len(aliceBattles) != 2 {
		t.Errorf("Expected 2 battles for alice, got %d", len(aliceBattles))
	}

	recent, err := store.RecentBattles(10)
	if err != nil {
		t.Fatalf("RecentBattles() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("Expected 3 recent battles, got %d", len(recent))
	}
}

func TestStoreRecentBattlesLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.SaveBattle(BattleRecord{
			BattleID: fmt.Sprintf("b-%d", i),
			PlayerID: "alice",
			TacoID:   "CLASSIC",
			EnemyID:  "FISH",
			Outcome:  "won",
		})
		if err != nil {
			t.Fatalf("SaveBattle() failed: %v", err)
		}
	}

	recent, err := store.RecentBattles(3)
	if err != nil {
		t.Fatalf("RecentBattles() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("Expected 3 battles with limit, got %d", len(recent))
	}
}

func TestStoreSaveAndRetrieveDuels(t *testing.T) {
	store := openTestStore(t)

	_, err := store.SaveDuel(DuelRecord{
		DuelID:       "d-1",
		ChallengerID: "alice",
		TargetID:     "bob",
		WinnerID:     "bob",
		Outcome:      "won",
		Turns:        7,
	})
	if err != nil {
		t.Fatalf("SaveDuel() failed: %v", err)
	}
	_, err = store.SaveDuel(DuelRecord{
		DuelID:       "d-2",
		ChallengerID: "carol",
		TargetID:     "dave",
		Outcome:      "timed-out",
	})
	if err != nil {
		t.Fatalf("SaveDuel() failed: %v", err)
	}

	duels, err := store.RecentDuels(10)
	if err != nil {
		t.Fatalf("RecentDuels() failed: %v", err)
	}
	if len(duels) != 2 {
		t.Fatalf("Expected 2 duels, got %d", len(duels))
	}

	byID := map[string]DuelRecord{}
	for _, d := range duels {
		byID[d.DuelID] = d
	}
	if byID["d-1"].WinnerID != "bob" {
		t.Errorf("Expected winner bob, got %q", byID["d-1"].WinnerID)
	}
	if byID["d-2"].WinnerID != "" {
		t.Errorf("Timed-out duel should have no winner, got %q", byID["d-2"].WinnerID)
	}
}

func TestStorePlayerStats(t *testing.T) {
	store := openTestStore(t)

	// No battles yet
	stats, err := store.GetPlayerStats("alice")
	if err != nil {
		t.Fatalf("GetPlayerStats() failed: %v", err)
	}
	if stats.Battles != 0 || stats.Wins != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	records := []BattleRecord{
		{BattleID: "s-1", PlayerID: "alice", TacoID: "CLASSIC", EnemyID: "FISH", Outcome: "won", XPGained: 15},
		{BattleID: "s-2", PlayerID: "alice", TacoID: "CLASSIC", EnemyID: "GOLD", Outcome: "lost"},
		{BattleID: "s-3", PlayerID: "alice", TacoID: "CLASSIC", EnemyID: "SHRIMP", Outcome: "won", XPGained: 25},
		{BattleID: "s-4", PlayerID: "bob", TacoID: "FISH", EnemyID: "CLASSIC", Outcome: "won", XPGained: 100},
	}
	for _, rec := range records {
		if _, err := store.SaveBattle(rec); err != nil {
			t.Fatalf("SaveBattle() failed: %v", err)
		}
	}

	stats, err = store.GetPlayerStats("alice")
	if err != nil {
		t.Fatalf("GetPlayerStats() failed: %v", err)
	}
	if stats.Battles != 3 {
		t.Errorf("Expected 3 battles, got %d", stats.Battles)
	}
	if stats.Wins != 2 || stats.Losses != 1 {
		t.Errorf("Expected 2 wins / 1 loss, got %d / %d", stats.Wins, stats.Losses)
	}
	if stats.TotalXP != 40 {
		t.Errorf("Expected 40 total XP, got %d", stats.TotalXP)
	}
}

func TestStoreResultSaverAdapters(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveBattleResult(session.BattleResultData{
		BattleID:   "adapter-b",
		PlayerID:   "alice",
		TacoID:     "BIRRIA",
		TacoLevel:  3,
		EnemyID:    "LOBSTER",
		EnemyLevel: 2,
		Outcome:    "won",
		Turns:      4,
		XPGained:   20,
	})
	if err != nil {
		t.Fatalf("SaveBattleResult() failed: %v", err)
	}

	err = store.SaveDuelResult(session.DuelResultData{
		DuelID:       "adapter-d",
		ChallengerID: "alice",
		TargetID:     "bob",
		WinnerID:     "alice",
		Outcome:      "won",
		Turns:        9,
	})
	if err != nil {
		t.Fatalf("SaveDuelResult() failed: %v", err)
	}

	battles, err := store.PlayerBattles("alice", 10)
	if err != nil {
		t.Fatalf("PlayerBattles() failed: %v", err)
	}
	if len(battles) != 1 || battles[0].BattleID != "adapter-b" {
		t.Errorf("Adapter battle not recorded: %+v", battles)
	}

	duels, err := store.RecentDuels(10)
	if err != nil {
		t.Fatalf("RecentDuels() failed: %v", err)
	}
	if len(duels) != 1 || duels[0].Turns != 9 {
		t.Errorf("Adapter duel not recorded: %+v", duels)
	}
}

func TestStoreExpandNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
