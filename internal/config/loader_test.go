package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGameEmbeddedDefault(t *testing.T) {
	// No custom path and no config files in the working directory: the
	// embedded defaults apply.
	cfg, err := LoadGame("")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if cfg.Catch.BaseChance != 0.7 {
		t.Errorf("base_chance = %v, want 0.7", cfg.Catch.BaseChance)
	}
	if cfg.Combat.MinDamage != 5 {
		t.Errorf("min_damage = %d, want 5", cfg.Combat.MinDamage)
	}
	if cfg.Session.TimeoutSeconds != 120 {
		t.Errorf("timeout_seconds = %d, want 120", cfg.Session.TimeoutSeconds)
	}
	if cfg.Leaderboard.Datastore != "TacoLeaderboard" {
		t.Errorf("datastore = %q", cfg.Leaderboard.Datastore)
	}
}

func TestLoadGameCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	custom := `
catch:
  base_chance: 0.5
  coin_reward: 25
combat:
  min_damage: 1
  variance_min: 0.8
  variance_max: 1.2
  win_xp_base: 10
session:
  timeout_seconds: 60
leaderboard:
  size: 5
`
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadGame(path)
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if cfg.Catch.BaseChance != 0.5 {
		t.Errorf("base_chance = %v, want 0.5", cfg.Catch.BaseChance)
	}
	if cfg.Catch.CoinReward != 25 {
		t.Errorf("coin_reward = %d, want 25", cfg.Catch.CoinReward)
	}
	if cfg.Leaderboard.Size != 5 {
		t.Errorf("leaderboard size = %d, want 5", cfg.Leaderboard.Size)
	}
}

func TestLoadGameMissingCustomPath(t *testing.T) {
	if _, err := LoadGame(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadGameRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	bad := `
catch:
  base_chance: 3.0
leaderboard:
  size: 10
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadGame(path); err == nil {
		t.Fatal("expected validation error for base_chance > 1")
	}
}

func TestDefaultsMatchEmbeddedYAML(t *testing.T) {
	loaded, err := LoadGame("")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if loaded != DefaultGameConfig() {
		t.Errorf("embedded yaml diverges from hardcoded defaults:\n%+v\nvs\n%+v",
			loaded, DefaultGameConfig())
	}
}

func TestCombatTuningConversion(t *testing.T) {
	tuning := DefaultGameConfig().Combat.Tuning()
	if tuning.MinDamage != 5 || tuning.DuelDefenseFactor != 0.2 {
		t.Errorf("unexpected tuning: %+v", tuning)
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("DISCORD_APP_ID", "app")
	t.Setenv("GUILD_ID", "guild")
	t.Setenv("ROBLOX_API_KEY", "")
	t.Setenv("ROBLOX_UNIVERSE_ID", "")
	t.Setenv("WEB_ADDR", "")

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials() failed: %v", err)
	}
	if creds.DiscordToken != "tok" {
		t.Errorf("token = %q", creds.DiscordToken)
	}
	if creds.WebAddr != ":8080" {
		t.Errorf("web addr = %q, want default :8080", creds.WebAddr)
	}
	if creds.RobloxConfigured() {
		t.Error("RobloxConfigured() true without credentials")
	}
}

func TestLoadCredentialsMissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	os.Unsetenv("DISCORD_TOKEN")
	t.Setenv("DISCORD_APP_ID", "app")
	t.Setenv("GUILD_ID", "guild")

	if _, err := LoadCredentials(); err == nil {
		t.Fatal("expected error for missing DISCORD_TOKEN")
	}
}
