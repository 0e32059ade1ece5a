// Package session tracks in-progress interactive flows: single-player
// battles and two-player duels. A Registry owns session lifecycle (insert
// on creation, remove on terminal transition) and enforces that each
// identity has at most one active session of a given kind. Session state
// lives in process memory only; a restart silently abandons pending
// sessions.
package session

import (
	"errors"
	"time"

	"github.com/itsrainingtacos/arcabloom/internal/combat"
)

// Sentinel errors for rejected session operations. ErrNotParticipant and
// ErrNotYourTurn are permission denials: they produce a rejection reply
// and are not logged as errors.
var (
	ErrAlreadyInBattle = errors.New("session: already in a battle")
	ErrAlreadyInDuel   = errors.New("session: participant already in a duel")
	ErrNoSession       = errors.New("session: no active session")
	ErrNotParticipant  = errors.New("session: not a participant of this session")
	ErrNotYourTurn     = errors.New("session: not your turn")
	ErrNotReady        = errors.New("session: waiting for selections")
)

// Action is a combat action requested by a participant.
type Action int

const (
	ActionAttack Action = iota
	ActionDefend
	ActionFlee
)

// BattleState is the battle session state machine:
// AwaitingSelection -> AwaitingAction -> (AwaitingAction | terminal).
type BattleState int

const (
	BattleAwaitingSelection BattleState = iota
	BattleAwaitingAction
	BattleWon
	BattleLost
	BattleFled
	BattleTimedOut
)

// Terminal reports whether the state ends the session.
func (s BattleState) Terminal() bool {
	return s >= BattleWon
}

func (s BattleState) String() string {
	switch s {
	case BattleAwaitingSelection:
		return "awaiting-selection"
	case BattleAwaitingAction:
		return "awaiting-action"
	case BattleWon:
		return "won"
	case BattleLost:
		return "lost"
	case BattleFled:
		return "fled"
	case BattleTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// BattleSession is a single-player fight against a generated encounter.
// Player and Enemy are value copies; the owned creature in the user
// record is never touched until rewards are written on completion.
type BattleSession struct {
	ID       string
	PlayerID string
	Player   combat.Combatant
	Enemy    combat.Combatant
	Turn     int
	State    BattleState

	// ChannelID and MessageID bind the session to the presentation
	// surface so a timeout can update the original message.
	ChannelID string
	MessageID string

	timer *time.Timer
}

// DuelState is the duel session state machine:
// AwaitingSelections -> AwaitingTurn -> (AwaitingTurn | terminal).
type DuelState int

const (
	DuelAwaitingSelections DuelState = iota
	DuelAwaitingTurn
	DuelWon
	DuelAbandoned
)

// Terminal reports whether the state ends the session.
func (s DuelState) Terminal() bool {
	return s >= DuelWon
}

func (s DuelState) String() string {
	switch s {
	case DuelAwaitingSelections:
		return "awaiting-selections"
	case DuelAwaitingTurn:
		return "awaiting-turn"
	case DuelWon:
		return "won"
	case DuelAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// DuelSession is a two-player fight. Players[0] is the challenger and
// always moves first. Combatants are populated as each side selects a
// creature, out of band via private messages.
type DuelSession struct {
	ID         string
	Players    [2]string
	Combatants [2]*combat.Combatant
	Defending  [2]bool
	TurnIndex  int
	Turns      int
	State      DuelState
	WinnerID   string

	ChannelID string
	MessageID string

	timer *time.Timer
}

// CurrentPlayer returns the identity whose turn it is.
func (d *DuelSession) CurrentPlayer() string {
	return d.Players[d.TurnIndex]
}

// Opponent returns the identity opposing the given participant.
func (d *DuelSession) Opponent(playerID string) string {
	if d.Players[0] == playerID {
		return d.Players[1]
	}
	return d.Players[0]
}

// Ready reports whether both sides have selected a creature.
func (d *DuelSession) Ready() bool {
	return d.Combatants[0] != nil && d.Combatants[1] != nil
}

func (d *DuelSession) indexOf(playerID string) int {
	for i, p := range d.Players {
		if p == playerID {
			return i
		}
	}
	return -1
}
