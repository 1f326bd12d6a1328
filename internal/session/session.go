package session

import (
	"context"
	"time"

	"trade-gate/internal/checklist"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// Dialogue phases, ordered and non-revisitable.
const (
	PhaseChecklist        = "checklist"
	PhaseAwaitingPnL      = "awaiting_pnl"
	PhaseAwaitingMistakes = "awaiting_mistakes"
	PhaseDone             = "done"
)

// Phase-transition events.
const (
	EventChecklistDone = "checklist_done"
	EventPnLRecorded   = "pnl_recorded"
	EventMistakesSaved = "mistakes_saved"
)

// StockUnspecified is the sentinel used when /start carries no ticker.
const StockUnspecified = "unspecified"

// Session is one user's pass through the checklist dialogue. Answers are
// append-only during the checklist phase and frozen afterwards; the scoring
// result and timestamps are set exactly once at checklist completion.
type Session struct {
	ID     string
	UserID int64
	Stock  string

	Step    int
	Answers []bool

	YesCount int
	Verdict  checklist.Verdict
	Date     string // YYYY-MM-DD
	Time     string // HH:MM

	PnL      string // canonical ±D.DD%
	Mistakes []string

	LastActivity time.Time

	phase *fsm.FSM
}

func New(userID int64, stock string) *Session {
	if stock == "" {
		stock = StockUnspecified
	}
	return &Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		Stock:        stock,
		LastActivity: time.Now(),
		phase: fsm.NewFSM(
			PhaseChecklist,
			fsm.Events{
				{Name: EventChecklistDone, Src: []string{PhaseChecklist}, Dst: PhaseAwaitingPnL},
				{Name: EventPnLRecorded, Src: []string{PhaseAwaitingPnL}, Dst: PhaseAwaitingMistakes},
				{Name: EventMistakesSaved, Src: []string{PhaseAwaitingMistakes}, Dst: PhaseDone},
			},
			fsm.Callbacks{},
		),
	}
}

func (s *Session) Phase() string { return s.phase.Current() }

func (s *Session) Fire(event string) error {
	return s.phase.Event(context.Background(), event)
}
