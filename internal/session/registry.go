package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/itsrainingtacos/arcabloom/internal/combat"
	"github.com/itsrainingtacos/arcabloom/internal/store"
	"github.com/itsrainingtacos/arcabloom/internal/taco"
)

// DefaultTimeout is how long a session may sit awaiting input before it
// is expired and removed.
const DefaultTimeout = 120 * time.Second

// BattleResultData is the completed-battle record handed to a ResultSaver.
type BattleResultData struct {
	BattleID   string
	PlayerID   string
	TacoID     string
	TacoLevel  int
	EnemyID    string
	EnemyLevel int
	Outcome    string
	Turns      int
	XPGained   int
}

// DuelResultData is the completed-duel record handed to a ResultSaver.
type DuelResultData struct {
	DuelID       string
	ChallengerID string
	TargetID     string
	WinnerID     string
	Outcome      string
	Turns        int
}

// ResultSaver persists finished session results. Persistence failures are
// logged and never block session resolution.
type ResultSaver interface {
	SaveBattleResult(data BattleResultData) error
	SaveDuelResult(data DuelResultData) error
}

// ExpiredSession describes a session removed by timeout, delivered to the
// registry's expiry callback so the presentation layer can update the
// original message.
type ExpiredSession struct {
	Kind      string // "battle" or "duel"
	SessionID string
	PlayerIDs []string
	ChannelID string
	MessageID string
}

// ExpiryFunc receives timeout notifications. It is called outside the
// registry lock and may block.
type ExpiryFunc func(ExpiredSession)

// Config tunes registry behaviour.
type Config struct {
	Timeout time.Duration
	Tuning  combat.Tuning
}

// DefaultConfig returns the stock timeout and combat tuning.
func DefaultConfig() Config {
	return Config{Timeout: DefaultTimeout, Tuning: combat.DefaultTuning()}
}

// Registry owns all active battle and duel sessions, keyed by player
// identity. All state transitions happen under a single mutex; timers
// fire expiry through the same lock so a resolved session is never
// expired twice.
type Registry struct {
	cfg    Config
	users  *store.Store
	gen    *taco.Generator
	logger *log.Logger

	saver    ResultSaver
	onExpire ExpiryFunc

	mu      sync.Mutex
	rng     *rand.Rand
	battles map[string]*BattleSession
	duels   map[string]*DuelSession // both participants map to the same session
}

// NewRegistry creates a session registry backed by the given user store
// and encounter generator.
func NewRegistry(cfg Config, users *store.Store, gen *taco.Generator, logger *log.Logger) *Registry {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Tuning == (combat.Tuning{}) {
		cfg.Tuning = combat.DefaultTuning()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		cfg:     cfg,
		users:   users,
		gen:     gen,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		battles: make(map[string]*BattleSession),
		duels:   make(map[string]*DuelSession),
	}
}

// SetResultSaver installs an optional persistence sink for finished
// sessions.
func (r *Registry) SetResultSaver(s ResultSaver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saver = s
}

// SetExpiryFunc installs the timeout notification callback.
func (r *Registry) SetExpiryFunc(fn ExpiryFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onExpire = fn
}

// ActiveBattles returns the number of battles in progress.
func (r *Registry) ActiveBattles() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.battles)
}

// ActiveDuels returns the number of duels in progress.
func (r *Registry) ActiveDuels() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.duels) / 2
}

// Battle returns the player's active battle session, if any.
func (r *Registry) Battle(playerID string) (*BattleSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.battles[playerID]
	return sess, ok
}

// Duel returns the participant's active duel session, if any.
func (r *Registry) Duel(playerID string) (*DuelSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.duels[playerID]
	return sess, ok
}

// BindBattleMessage records the channel and message the battle is being
// rendered in, so the timeout path can edit it.
func (r *Registry) BindBattleMessage(playerID, channelID, messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.battles[playerID]; ok {
		sess.ChannelID = channelID
		sess.MessageID = messageID
	}
}

// BindDuelMessage records the channel and message the duel is being
// rendered in.
func (r *Registry) BindDuelMessage(playerID, channelID, messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.duels[playerID]; ok {
		sess.ChannelID = channelID
		sess.MessageID = messageID
	}
}

func (r *Registry) saveBattle(data BattleResultData) {
	if r.saver == nil {
		return
	}
	if err := r.saver.SaveBattleResult(data); err != nil {
		r.logger.Error("save battle result", "battle_id", data.BattleID, "err", err)
	}
}

func (r *Registry) saveDuel(data DuelResultData) {
	if r.saver == nil {
		return
	}
	if err := r.saver.SaveDuelResult(data); err != nil {
		r.logger.Error("save duel result", "duel_id", data.DuelID, "err", err)
	}
}

func newSessionID() string {
	return uuid.NewString()
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

func (r *Registry) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("registry(battles=%d duels=%d)", len(r.battles), len(r.duels)/2)
}
