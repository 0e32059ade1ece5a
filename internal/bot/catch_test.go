package bot

import (
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/itsrainingtacos/arcabloom/internal/config"
	"github.com/itsrainingtacos/arcabloom/internal/store"
	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	users, err := store.Open(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return &Bot{
		logger: log.New(io.Discard),
		cfg:    config.DefaultGameConfig(),
		users:  users,
		gen:    taco.NewGeneratorWithSeed(1),
	}
}

func TestGeneratorAccessSerialized(t *testing.T) {
	b := newTestBot(t)

	// Handlers run in separate goroutines; drawTemplate and catchRoll
	// must be safe to call from all of them at once.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				if tpl := b.drawTemplate(); tpl.ID == "" {
					t.Error("empty template drawn")
					return
				}
				if roll := b.catchRoll(); roll < 0 || roll >= 1 {
					t.Errorf("roll = %v out of [0,1)", roll)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestApplyCatchRejectsStaleEncounter(t *testing.T) {
	b := newTestBot(t)
	tpl, _ := taco.TemplateByID("CLASSIC")
	outcome := b.cfg.Catch.Rules().Resolve(tpl, 0.0)
	if !outcome.Caught {
		t.Fatal("forced roll should catch")
	}

	spawned := time.Now().UnixMilli()
	if _, err := b.users.Update("u1", func(r *store.UserRecord) error {
		r.LastCatch = spawned
		return nil
	}); err != nil {
		t.Fatalf("spawn: %v", err)
	}

	rec, _, err := b.applyCatch("u1", spawned, outcome)
	if err != nil {
		t.Fatalf("applyCatch: %v", err)
	}
	if len(rec.Tacos) != 1 || rec.CatchStreak != 1 {
		t.Errorf("record after catch = %d tacos, streak %d", len(rec.Tacos), rec.CatchStreak)
	}
	wantCoins := rec.Coins

	// Same button again: resolution moved LastCatch, so the token no
	// longer matches.
	if _, _, err := b.applyCatch("u1", spawned, outcome); !errors.Is(err, errStaleEncounter) {
		t.Fatalf("second press error = %v, want stale encounter", err)
	}

	// A button from an older encounter never matches either.
	if _, _, err := b.applyCatch("u1", spawned-5000, outcome); !errors.Is(err, errStaleEncounter) {
		t.Fatalf("old encounter error = %v, want stale encounter", err)
	}

	after, err := b.users.User("u1")
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if len(after.Tacos) != 1 || after.Coins != wantCoins {
		t.Errorf("stale presses changed the record: %d tacos, %d coins", len(after.Tacos), after.Coins)
	}
}

func TestCatchCooldownStartsAtSpawn(t *testing.T) {
	b := newTestBot(t)

	if wait := b.catchCooldownLeft("u1"); wait != 0 {
		t.Errorf("fresh user cooldown = %v, want 0", wait)
	}

	if _, err := b.users.Update("u1", func(r *store.UserRecord) error {
		r.LastCatch = time.Now().UnixMilli()
		return nil
	}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	wait := b.catchCooldownLeft("u1")
	if wait <= 0 || wait > 10*time.Second {
		t.Errorf("cooldown after spawn = %v, want (0,10s]", wait)
	}

	if _, err := b.users.Update("u1", func(r *store.UserRecord) error {
		r.LastCatch = time.Now().Add(-11 * time.Second).UnixMilli()
		return nil
	}); err != nil {
		t.Fatalf("age spawn: %v", err)
	}
	if wait := b.catchCooldownLeft("u1"); wait != 0 {
		t.Errorf("expired cooldown = %v, want 0", wait)
	}
}
