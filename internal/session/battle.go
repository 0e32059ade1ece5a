package session

import (
	"time"

	"github.com/itsrainingtacos/arcabloom/internal/combat"
	"github.com/itsrainingtacos/arcabloom/internal/store"
	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

// BattleOutcome reports the result of a single battle action: the
// exchange that happened and, on a win, the reward applied.
type BattleOutcome struct {
	Session   *BattleSession
	Log       combat.ExchangeLog
	XPGained  int
	LeveledUp bool
}

// BeginBattle opens a battle session for the player, awaiting their
// creature selection. A player can hold at most one battle at a time.
func (r *Registry) BeginBattle(playerID string) (*BattleSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.battles[playerID]; ok {
		return nil, ErrAlreadyInBattle
	}

	sess := &BattleSession{
		ID:       newSessionID(),
		PlayerID: playerID,
		State:    BattleAwaitingSelection,
	}
	sess.timer = r.scheduleBattleExpiry(playerID, sess.ID)
	r.battles[playerID] = sess
	r.logger.Debug("battle opened", "session_id", sess.ID, "player", playerID)
	return sess, nil
}

// SelectBattleTaco locks in the player's creature and generates the
// opposing encounter. The enemy is drawn fresh from the rarity table and
// leveled within one of the selected creature's level.
func (r *Registry) SelectBattleTaco(playerID string, inst taco.Instance) (*BattleSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.battles[playerID]
	if !ok {
		return nil, ErrNoSession
	}
	if sess.State != BattleAwaitingSelection {
		return nil, ErrNoSession
	}

	enemyTpl := r.gen.Draw()
	enemy := taco.Instantiate(enemyTpl, r.gen.EnemyLevel(inst.Level))

	sess.Player = combat.NewCombatant(inst)
	sess.Enemy = combat.NewCombatant(enemy)
	sess.State = BattleAwaitingAction
	r.logger.Debug("battle selection",
		"session_id", sess.ID,
		"player_taco", inst.ID,
		"enemy_taco", enemy.ID,
		"enemy_level", enemy.Level)
	return sess, nil
}

// BattleAction applies one player action to the battle. Attack and defend
// resolve a full exchange; flee ends the session immediately with no
// penalty. Terminal outcomes update the user record, persist the result,
// and remove the session.
func (r *Registry) BattleAction(playerID string, action Action) (*BattleOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.battles[playerID]
	if !ok {
		return nil, ErrNoSession
	}
	if sess.State != BattleAwaitingAction {
		return nil, ErrNoSession
	}

	out := &BattleOutcome{Session: sess}

	if action == ActionFlee {
		sess.State = BattleFled
		r.finishBattleLocked(sess, "fled", 0)
		return out, nil
	}

	out.Log = r.cfg.Tuning.Exchange(&sess.Player, &sess.Enemy, action == ActionDefend, r.rng)
	sess.Turn++

	// Enemy defeat wins even when the retaliation would have dropped
	// the player in the same exchange.
	switch {
	case sess.Enemy.Defeated():
		sess.State = BattleWon
		out.XPGained = r.cfg.Tuning.WinXP(sess.Enemy.Level)
		out.LeveledUp = r.applyBattleResult(playerID, out.XPGained, true)
		r.finishBattleLocked(sess, "won", out.XPGained)
	case sess.Player.Defeated():
		sess.State = BattleLost
		r.applyBattleResult(playerID, 0, false)
		r.finishBattleLocked(sess, "lost", 0)
	}
	return out, nil
}

// applyBattleResult writes counters and XP to the user record. Store
// failures are logged; the session still resolves.
func (r *Registry) applyBattleResult(playerID string, xp int, won bool) bool {
	leveled := false
	_, err := r.users.Update(playerID, func(rec *store.UserRecord) error {
		if won {
			rec.BattleWins++
			leveled = rec.ApplyXP(xp)
		} else {
			rec.BattleLosses++
		}
		return nil
	})
	if err != nil {
		r.logger.Error("persist battle result", "player", playerID, "err", err)
	}
	return leveled
}

// finishBattleLocked removes the session and hands the result to the
// saver. Caller holds r.mu and has already set a terminal state.
func (r *Registry) finishBattleLocked(sess *BattleSession, outcome string, xp int) {
	stopTimer(sess.timer)
	delete(r.battles, sess.PlayerID)
	// A battle abandoned before any creature was selected has no
	// combatants worth recording.
	if sess.Player.ID == "" {
		r.logger.Info("battle finished",
			"session_id", sess.ID,
			"player", sess.PlayerID,
			"outcome", outcome,
			"turns", sess.Turn)
		return
	}
	r.saveBattle(BattleResultData{
		BattleID:   sess.ID,
		PlayerID:   sess.PlayerID,
		TacoID:     sess.Player.ID,
		TacoLevel:  sess.Player.Level,
		EnemyID:    sess.Enemy.ID,
		EnemyLevel: sess.Enemy.Level,
		Outcome:    outcome,
		Turns:      sess.Turn,
		XPGained:   xp,
	})
	r.logger.Info("battle finished",
		"session_id", sess.ID,
		"player", sess.PlayerID,
		"outcome", outcome,
		"turns", sess.Turn)
}

func (r *Registry) scheduleBattleExpiry(playerID, sessionID string) *time.Timer {
	return time.AfterFunc(r.cfg.Timeout, func() {
		r.expireBattle(playerID, sessionID)
	})
}

// expireBattle times out a battle if it is still the same pending
// session. Firing after resolution is a no-op.
func (r *Registry) expireBattle(playerID, sessionID string) {
	r.mu.Lock()
	sess, ok := r.battles[playerID]
	if !ok || sess.ID != sessionID || sess.State.Terminal() {
		r.mu.Unlock()
		return
	}
	sess.State = BattleTimedOut
	r.finishBattleLocked(sess, "timed-out", 0)
	notify := r.onExpire
	expired := ExpiredSession{
		Kind:      "battle",
		SessionID: sess.ID,
		PlayerIDs: []string{playerID},
		ChannelID: sess.ChannelID,
		MessageID: sess.MessageID,
	}
	r.mu.Unlock()

	if notify != nil {
		notify(expired)
	}
}
