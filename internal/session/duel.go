package session

import (
	"time"

	"github.com/itsrainingtacos/arcabloom/internal/combat"
	"github.com/itsrainingtacos/arcabloom/internal/store"
	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

// DuelOutcome reports one resolved duel turn.
type DuelOutcome struct {
	Session    *DuelSession
	ActorID    string
	OpponentID string
	Damage     int
	Defended   bool
	WinnerID   string
}

// ChallengeDuel opens a duel between challenger and target. Both become
// bound to the session immediately; either being mid-duel rejects the
// challenge.
func (r *Registry) ChallengeDuel(challengerID, targetID string) (*DuelSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.duels[challengerID]; ok {
		return nil, ErrAlreadyInDuel
	}
	if _, ok := r.duels[targetID]; ok {
		return nil, ErrAlreadyInDuel
	}

	sess := &DuelSession{
		ID:      newSessionID(),
		Players: [2]string{challengerID, targetID},
		State:   DuelAwaitingSelections,
	}
	sess.timer = r.scheduleDuelExpiry(sess.ID, challengerID)
	r.duels[challengerID] = sess
	r.duels[targetID] = sess
	r.logger.Debug("duel opened", "session_id", sess.ID, "challenger", challengerID, "target", targetID)
	return sess, nil
}

// SelectDuelTaco locks in a participant's creature. The returned ready
// flag is true once both sides have selected, at which point the duel
// moves to turn play with the challenger first.
func (r *Registry) SelectDuelTaco(playerID string, inst taco.Instance) (*DuelSession, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.duels[playerID]
	if !ok {
		return nil, false, ErrNoSession
	}
	if sess.State != DuelAwaitingSelections {
		return nil, false, ErrNoSession
	}

	idx := sess.indexOf(playerID)
	if idx < 0 {
		return nil, false, ErrNotParticipant
	}
	c := combat.NewCombatant(inst)
	sess.Combatants[idx] = &c

	if sess.Ready() {
		sess.State = DuelAwaitingTurn
		sess.TurnIndex = 0
		r.logger.Debug("duel ready", "session_id", sess.ID)
		return sess, true, nil
	}
	return sess, false, nil
}

// DuelAction applies one turn. Only the participant whose turn it is may
// act; attack deals flat damage to the opponent, defend records the
// stance. The turn passes either way. A defeated opponent ends the duel.
func (r *Registry) DuelAction(playerID string, action Action) (*DuelOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.duels[playerID]
	if !ok {
		return nil, ErrNoSession
	}
	if sess.State != DuelAwaitingTurn {
		if sess.State == DuelAwaitingSelections {
			return nil, ErrNotReady
		}
		return nil, ErrNoSession
	}
	idx := sess.indexOf(playerID)
	if idx < 0 {
		return nil, ErrNotParticipant
	}
	if sess.TurnIndex != idx {
		return nil, ErrNotYourTurn
	}

	opponentIdx := 1 - idx
	out := &DuelOutcome{
		Session:    sess,
		ActorID:    playerID,
		OpponentID: sess.Players[opponentIdx],
	}

	switch action {
	case ActionAttack:
		actor := sess.Combatants[idx]
		opponent := sess.Combatants[opponentIdx]
		out.Damage = r.cfg.Tuning.Strike(actor, opponent)
		opponent.CurrentHP -= out.Damage
	case ActionDefend:
		sess.Defending[idx] = true
		out.Defended = true
	}

	sess.TurnIndex = opponentIdx
	sess.Turns++

	if sess.Combatants[opponentIdx].Defeated() {
		sess.State = DuelWon
		sess.WinnerID = playerID
		out.WinnerID = playerID
		r.applyDuelResult(playerID, sess.Players[opponentIdx])
		r.finishDuelLocked(sess, "won")
	}
	return out, nil
}

// applyDuelResult bumps win/loss counters for both participants.
func (r *Registry) applyDuelResult(winnerID, loserID string) {
	if _, err := r.users.Update(winnerID, func(rec *store.UserRecord) error {
		rec.BattleWins++
		return nil
	}); err != nil {
		r.logger.Error("persist duel win", "player", winnerID, "err", err)
	}
	if _, err := r.users.Update(loserID, func(rec *store.UserRecord) error {
		rec.BattleLosses++
		return nil
	}); err != nil {
		r.logger.Error("persist duel loss", "player", loserID, "err", err)
	}
}

// finishDuelLocked removes both participant bindings and records the
// result. Caller holds r.mu and has already set a terminal state.
func (r *Registry) finishDuelLocked(sess *DuelSession, outcome string) {
	stopTimer(sess.timer)
	delete(r.duels, sess.Players[0])
	delete(r.duels, sess.Players[1])
	r.saveDuel(DuelResultData{
		DuelID:       sess.ID,
		ChallengerID: sess.Players[0],
		TargetID:     sess.Players[1],
		WinnerID:     sess.WinnerID,
		Outcome:      outcome,
		Turns:        sess.Turns,
	})
	r.logger.Info("duel finished",
		"session_id", sess.ID,
		"challenger", sess.Players[0],
		"target", sess.Players[1],
		"outcome", outcome,
		"winner", sess.WinnerID)
}

func (r *Registry) scheduleDuelExpiry(sessionID, challengerID string) *time.Timer {
	return time.AfterFunc(r.cfg.Timeout, func() {
		r.expireDuel(sessionID, challengerID)
	})
}

// expireDuel abandons a duel still awaiting input. Firing after
// resolution is a no-op.
func (r *Registry) expireDuel(sessionID, challengerID string) {
	r.mu.Lock()
	sess, ok := r.duels[challengerID]
	if !ok || sess.ID != sessionID || sess.State.Terminal() {
		r.mu.Unlock()
		return
	}
	sess.State = DuelAbandoned
	r.finishDuelLocked(sess, "timed-out")
	notify := r.onExpire
	expired := ExpiredSession{
		Kind:      "duel",
		SessionID: sess.ID,
		PlayerIDs: []string{sess.Players[0], sess.Players[1]},
		ChannelID: sess.ChannelID,
		MessageID: sess.MessageID,
	}
	r.mu.Unlock()

	if notify != nil {
		notify(expired)
	}
}
