package quota

import (
	"sync"
	"time"
)

// record tracks one user's completions for the current calendar date.
// Reset is lazy: a stale date means the stored count no longer applies.
type record struct {
	lastReset string // YYYY-MM-DD
	used      int
}

// Tracker enforces the daily completion cap. Reservation only checks;
// the count moves on Commit, so an abandoned session costs nothing.
type Tracker struct {
	mu        sync.Mutex
	maxPerDay int
	loc       *time.Location
	records   map[int64]*record
}

func NewTracker(maxPerDay int, loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{
		maxPerDay: maxPerDay,
		loc:       loc,
		records:   make(map[int64]*record),
	}
}

func (t *Tracker) today() string {
	return time.Now().In(t.loc).Format("2006-01-02")
}

// TryReserve reports whether the user may start a session today. It does
// not consume quota.
func (t *Tracker) TryReserve(userID int64) bool {
	return t.TryReserveOn(userID, t.today())
}

func (t *Tracker) TryReserveOn(userID int64, today string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.records[userID]
	if !ok || r.lastReset != today {
		return t.maxPerDay > 0
	}
	return r.used < t.maxPerDay
}

// Commit counts one completed session against today's cap.
func (t *Tracker) Commit(userID int64) {
	t.CommitOn(userID, t.today())
}

func (t *Tracker) CommitOn(userID int64, today string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.records[userID]
	if !ok {
		r = &record{lastReset: today}
		t.records[userID] = r
	}
	if r.lastReset != today {
		r.lastReset = today
		r.used = 0
	}
	r.used++
}

// Used reports completions counted for the user today.
func (t *Tracker) Used(userID int64) int {
	return t.UsedOn(userID, t.today())
}

func (t *Tracker) UsedOn(userID int64, today string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.records[userID]
	if !ok || r.lastReset != today {
		return 0
	}
	return r.used
}

func (t *Tracker) MaxPerDay() int { return t.maxPerDay }
