package session

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/itsrainingtacos/arcabloom/internal/store"
	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

type recordingSaver struct {
	battles []BattleResultData
	duels   []DuelResultData
}

func (s *recordingSaver) SaveBattleResult(data BattleResultData) error {
	s.battles = append(s.battles, data)
	return nil
}

func (s *recordingSaver) SaveDuelResult(data DuelResultData) error {
	s.duels = append(s.duels, data)
	return nil
}

func newTestRegistry(t *testing.T) (*Registry, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	gen := taco.NewGeneratorWithSeed(42)
	logger := log.New(io.Discard)
	reg := NewRegistry(DefaultConfig(), st, gen, logger)
	return reg, st
}

func testInstance(t *testing.T, level int) taco.Instance {
	t.Helper()
	tpl, ok := taco.TemplateByID("CLASSIC")
	if !ok {
		t.Fatal("CLASSIC template missing")
	}
	return taco.Instantiate(tpl, level)
}

func TestBeginBattleSingleActive(t *testing.T) {
	reg, _ := newTestRegistry(t)

	if _, err := reg.BeginBattle("alice"); err != nil {
		t.Fatalf("first battle: %v", err)
	}
	if _, err := reg.BeginBattle("alice"); !errors.Is(err, ErrAlreadyInBattle) {
		t.Fatalf("second battle: got %v, want ErrAlreadyInBattle", err)
	}
	if _, err := reg.BeginBattle("bob"); err != nil {
		t.Fatalf("other player: %v", err)
	}
	if n := reg.ActiveBattles(); n != 2 {
		t.Fatalf("active battles = %d, want 2", n)
	}
}

func TestBattleActionWithoutSession(t *testing.T) {
	reg, _ := newTestRegistry(t)
	if _, err := reg.BattleAction("nobody", ActionAttack); !errors.Is(err, ErrNoSession) {
		t.Fatalf("got %v, want ErrNoSession", err)
	}
}

func TestBattleWin(t *testing.T) {
	reg, st := newTestRegistry(t)
	saver := &recordingSaver{}
	reg.SetResultSaver(saver)

	if _, err := reg.BeginBattle("alice"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	sess, err := reg.SelectBattleTaco("alice", testInstance(t, 3))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sess.State != BattleAwaitingAction {
		t.Fatalf("state = %v, want awaiting-action", sess.State)
	}

	// A single-digit HP enemy guarantees the next attack wins.
	sess.Enemy.CurrentHP = 1
	out, err := reg.BattleAction("alice", ActionAttack)
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	if out.Session.State != BattleWon {
		t.Fatalf("state = %v, want won", out.Session.State)
	}
	want := reg.cfg.Tuning.WinXP(sess.Enemy.Level)
	if out.XPGained != want {
		t.Fatalf("xp = %d, want %d", out.XPGained, want)
	}
	if out.Log.EnemyDamage != 0 {
		t.Fatalf("defeated enemy retaliated for %d", out.Log.EnemyDamage)
	}
	if n := reg.ActiveBattles(); n != 0 {
		t.Fatalf("active battles = %d after win", n)
	}

	rec, err := st.User("alice")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if rec.BattleWins != 1 {
		t.Fatalf("wins = %d, want 1", rec.BattleWins)
	}
	if rec.XP != want {
		t.Fatalf("record xp = %d, want %d", rec.XP, want)
	}

	if len(saver.battles) != 1 {
		t.Fatalf("saved %d battle results, want 1", len(saver.battles))
	}
	if saver.battles[0].Outcome != "won" {
		t.Fatalf("saved outcome = %q", saver.battles[0].Outcome)
	}
}

func TestBattleFlee(t *testing.T) {
	reg, st := newTestRegistry(t)

	if _, err := reg.BeginBattle("alice"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := reg.SelectBattleTaco("alice", testInstance(t, 1)); err != nil {
		t.Fatalf("select: %v", err)
	}
	out, err := reg.BattleAction("alice", ActionFlee)
	if err != nil {
		t.Fatalf("flee: %v", err)
	}
	if out.Session.State != BattleFled {
		t.Fatalf("state = %v, want fled", out.Session.State)
	}
	if n := reg.ActiveBattles(); n != 0 {
		t.Fatalf("active battles = %d after flee", n)
	}

	// Fleeing carries no penalty.
	rec, err := st.User("alice")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if rec.BattleLosses != 0 {
		t.Fatalf("losses = %d, want 0", rec.BattleLosses)
	}
}

func TestBattleExpiry(t *testing.T) {
	reg, _ := newTestRegistry(t)
	var expired []ExpiredSession
	reg.SetExpiryFunc(func(e ExpiredSession) { expired = append(expired, e) })

	sess, err := reg.BeginBattle("alice")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	reg.BindBattleMessage("alice", "chan-1", "msg-1")

	reg.expireBattle("alice", sess.ID)
	if n := reg.ActiveBattles(); n != 0 {
		t.Fatalf("active battles = %d after expiry", n)
	}
	if len(expired) != 1 {
		t.Fatalf("expiry notifications = %d, want 1", len(expired))
	}
	if expired[0].Kind != "battle" || expired[0].ChannelID != "chan-1" || expired[0].MessageID != "msg-1" {
		t.Fatalf("unexpected notification: %+v", expired[0])
	}

	// A stale timer firing after resolution must be a no-op.
	reg.expireBattle("alice", sess.ID)
	if len(expired) != 1 {
		t.Fatalf("stale expiry fired again: %d notifications", len(expired))
	}
}

func TestBattleExpiryBeforeSelectionRecordsNothing(t *testing.T) {
	reg, _ := newTestRegistry(t)
	saver := &recordingSaver{}
	reg.SetResultSaver(saver)

	sess, err := reg.BeginBattle("alice")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	// No creature was ever selected, so there is no battle to log.
	reg.expireBattle("alice", sess.ID)
	if len(saver.battles) != 0 {
		t.Fatalf("saved %d battle records for an unselected battle: %+v", len(saver.battles), saver.battles)
	}

	// Once a selection happened, a timeout is a real battle and is kept.
	sess, err = reg.BeginBattle("alice")
	if err != nil {
		t.Fatalf("second begin: %v", err)
	}
	if _, err := reg.SelectBattleTaco("alice", testInstance(t, 1)); err != nil {
		t.Fatalf("select: %v", err)
	}
	reg.expireBattle("alice", sess.ID)
	if len(saver.battles) != 1 {
		t.Fatalf("saved %d battle records, want 1", len(saver.battles))
	}
	if saver.battles[0].Outcome != "timed-out" || saver.battles[0].TacoID == "" {
		t.Fatalf("unexpected record: %+v", saver.battles[0])
	}
}

func TestBattleExpiryIgnoresReplacedSession(t *testing.T) {
	reg, _ := newTestRegistry(t)
	var count int
	reg.SetExpiryFunc(func(ExpiredSession) { count++ })

	first, err := reg.BeginBattle("alice")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := reg.SelectBattleTaco("alice", testInstance(t, 1)); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := reg.BattleAction("alice", ActionFlee); err != nil {
		t.Fatalf("flee: %v", err)
	}
	if _, err := reg.BeginBattle("alice"); err != nil {
		t.Fatalf("second battle: %v", err)
	}

	// The first session's timer firing must not touch the replacement.
	reg.expireBattle("alice", first.ID)
	if count != 0 {
		t.Fatalf("expiry hit a replaced session")
	}
	if n := reg.ActiveBattles(); n != 1 {
		t.Fatalf("active battles = %d, want 1", n)
	}
}

func TestDuelChallengeRejectsBusyParticipant(t *testing.T) {
	reg, _ := newTestRegistry(t)

	if _, err := reg.ChallengeDuel("alice", "bob"); err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if _, err := reg.ChallengeDuel("carol", "bob"); !errors.Is(err, ErrAlreadyInDuel) {
		t.Fatalf("busy target: got %v, want ErrAlreadyInDuel", err)
	}
	if _, err := reg.ChallengeDuel("alice", "dave"); !errors.Is(err, ErrAlreadyInDuel) {
		t.Fatalf("busy challenger: got %v, want ErrAlreadyInDuel", err)
	}
}

func TestDuelTurnOrder(t *testing.T) {
	reg, st := newTestRegistry(t)
	saver := &recordingSaver{}
	reg.SetResultSaver(saver)

	if _, err := reg.ChallengeDuel("alice", "bob"); err != nil {
		t.Fatalf("challenge: %v", err)
	}

	// Acting before both selections is rejected.
	if _, err := reg.DuelAction("alice", ActionAttack); !errors.Is(err, ErrNotReady) {
		t.Fatalf("premature action: got %v, want ErrNotReady", err)
	}

	if _, ready, err := reg.SelectDuelTaco("alice", testInstance(t, 2)); err != nil || ready {
		t.Fatalf("first select: ready=%v err=%v", ready, err)
	}
	sess, ready, err := reg.SelectDuelTaco("bob", testInstance(t, 2))
	if err != nil || !ready {
		t.Fatalf("second select: ready=%v err=%v", ready, err)
	}
	if sess.CurrentPlayer() != "alice" {
		t.Fatalf("first turn = %q, want challenger", sess.CurrentPlayer())
	}

	// Out-of-turn action is rejected, in-turn defend passes the turn.
	if _, err := reg.DuelAction("bob", ActionAttack); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("out of turn: got %v, want ErrNotYourTurn", err)
	}
	out, err := reg.DuelAction("alice", ActionDefend)
	if err != nil {
		t.Fatalf("defend: %v", err)
	}
	if !out.Defended || out.Damage != 0 {
		t.Fatalf("defend outcome: %+v", out)
	}
	if sess.CurrentPlayer() != "bob" {
		t.Fatalf("turn after defend = %q, want bob", sess.CurrentPlayer())
	}

	// Bob finishes off a nearly-dead opponent.
	sess.Combatants[0].CurrentHP = 1
	out, err = reg.DuelAction("bob", ActionAttack)
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	if out.WinnerID != "bob" {
		t.Fatalf("winner = %q, want bob", out.WinnerID)
	}
	if n := reg.ActiveDuels(); n != 0 {
		t.Fatalf("active duels = %d after win", n)
	}
	if _, ok := reg.Duel("alice"); ok {
		t.Fatal("loser still bound to a duel")
	}

	winRec, err := st.User("bob")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if winRec.BattleWins != 1 {
		t.Fatalf("winner wins = %d, want 1", winRec.BattleWins)
	}
	loseRec, err := st.User("alice")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if loseRec.BattleLosses != 1 {
		t.Fatalf("loser losses = %d, want 1", loseRec.BattleLosses)
	}

	if len(saver.duels) != 1 || saver.duels[0].WinnerID != "bob" {
		t.Fatalf("saved duel results: %+v", saver.duels)
	}
}

func TestDuelExpiry(t *testing.T) {
	reg, _ := newTestRegistry(t)
	var expired []ExpiredSession
	reg.SetExpiryFunc(func(e ExpiredSession) { expired = append(expired, e) })

	sess, err := reg.ChallengeDuel("alice", "bob")
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}
	reg.expireDuel(sess.ID, "alice")

	if n := reg.ActiveDuels(); n != 0 {
		t.Fatalf("active duels = %d after expiry", n)
	}
	if _, ok := reg.Duel("bob"); ok {
		t.Fatal("target still bound after expiry")
	}
	if len(expired) != 1 || expired[0].Kind != "duel" {
		t.Fatalf("notifications: %+v", expired)
	}
	if len(expired[0].PlayerIDs) != 2 {
		t.Fatalf("notification players: %+v", expired[0].PlayerIDs)
	}

	reg.expireDuel(sess.ID, "alice")
	if len(expired) != 1 {
		t.Fatal("stale duel expiry fired again")
	}
}

func TestRegistryTimeoutDefaulted(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	reg := NewRegistry(Config{}, st, taco.NewGeneratorWithSeed(1), log.New(io.Discard))
	if reg.cfg.Timeout != DefaultTimeout {
		t.Fatalf("timeout = %v, want %v", reg.cfg.Timeout, DefaultTimeout)
	}
	if reg.cfg.Timeout < time.Second {
		t.Fatal("timeout not defaulted")
	}
}
