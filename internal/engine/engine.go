package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"trade-gate/internal/checklist"
	"trade-gate/internal/logger"
	"trade-gate/internal/quota"
	"trade-gate/internal/session"

	"github.com/shopspring/decimal"
)

// Persister saves a finished session to the journal.
type Persister interface {
	Persist(ctx context.Context, sess *session.Session) error
}

// Engine drives the checklist dialogue: one inbound text per user advances
// that user's session and yields exactly one reply. Different users are
// fully independent; messages from the same user are serialized.
type Engine struct {
	def      *checklist.Definition
	mistakes *checklist.MistakeSet
	sessions *session.Store
	quota    *quota.Tracker
	journal  Persister
	loc      *time.Location

	userLocks sync.Map // userID -> *sync.Mutex
}

func New(def *checklist.Definition, mistakes *checklist.MistakeSet, sessions *session.Store, q *quota.Tracker, journal Persister, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		def:      def,
		mistakes: mistakes,
		sessions: sessions,
		quota:    q,
		journal:  journal,
		loc:      loc,
	}
}

// ActiveUsers lists users with a live session (reminder job, admin API).
func (e *Engine) ActiveUsers() []int64 { return e.sessions.ActiveUserIDs() }

// Advance processes one inbound message and returns the reply text.
func (e *Engine) Advance(ctx context.Context, userID int64, text string) string {
	lock := e.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	text = strings.TrimSpace(text)
	if stock, ok := parseStart(text); ok {
		return e.start(userID, stock)
	}

	sess, ok := e.sessions.Get(userID)
	if !ok {
		return "👉 Send /start [ticker] first."
	}
	e.sessions.Touch(userID)

	switch sess.Phase() {
	case session.PhaseChecklist:
		return e.answerChecklist(sess, text)
	case session.PhaseAwaitingPnL:
		return e.recordPnL(sess, text)
	case session.PhaseAwaitingMistakes:
		return e.recordMistakes(ctx, sess, text)
	}
	return "👉 Send /start [ticker] first."
}

func (e *Engine) start(userID int64, stock string) string {
	if !e.quota.TryReserve(userID) {
		logger.Info("start refused, quota exhausted", "user", userID, "max", e.quota.MaxPerDay())
		return fmt.Sprintf("🚫 Daily limit reached (%d/%d). Come back tomorrow.",
			e.quota.MaxPerDay(), e.quota.MaxPerDay())
	}

	sess := session.New(userID, stock)
	e.sessions.Put(sess) // last start wins; any in-flight session is dropped
	logger.Info("session started", "user", userID, "stock", sess.Stock, "session", sess.ID)
	return fmt.Sprintf("🧠 [%s] checklist started\n%s", sess.Stock, e.def.Question(0))
}

func (e *Engine) answerChecklist(sess *session.Session, text string) string {
	answer, ok := parseYesNo(text)
	if !ok {
		return "Please answer Y or N."
	}

	sess.Answers = append(sess.Answers, answer)
	sess.Step++
	if sess.Step < e.def.Len() {
		return e.def.Question(sess.Step)
	}

	// Checklist complete: score exactly once and freeze the result.
	res := checklist.Score(sess.Answers, e.def)
	now := time.Now().In(e.loc)
	sess.YesCount = res.YesCount
	sess.Verdict = res.Verdict
	sess.Date = now.Format("2006-01-02")
	sess.Time = now.Format("15:04")
	if err := sess.Fire(session.EventChecklistDone); err != nil {
		logger.Error("phase transition failed", "user", sess.UserID, "err", err)
	}
	logger.Info("checklist scored", "user", sess.UserID, "stock", sess.Stock,
		"yes", res.YesCount, "verdict", res.Verdict, "vetoed", res.Vetoed)

	return fmt.Sprintf("%s (%d/%d)\nNow enter this trade's 👉 PnL percent. Example: +5.3%% or -2%%",
		res.Verdict.Label(), res.YesCount, e.def.Len())
}

func (e *Engine) recordPnL(sess *session.Session, text string) string {
	pnl, ok := parsePercent(text)
	if !ok {
		return "Enter a percent value. Example: +5.3% or -2%"
	}

	sess.PnL = pnl
	if err := sess.Fire(session.EventPnLRecorded); err != nil {
		logger.Error("phase transition failed", "user", sess.UserID, "err", err)
	}
	return "Got it. Which mistakes did you make on this trade?\n" +
		e.mistakes.Menu() +
		"\nEnter numbers separated by commas. Example: 1,3"
}

func (e *Engine) recordMistakes(ctx context.Context, sess *session.Session, text string) string {
	codes, ok := e.mistakes.Parse(text)
	if !ok {
		return "Enter valid mistake numbers separated by commas. Example: 2,4\n" + e.mistakes.Menu()
	}
	sess.Mistakes = codes

	// Persist first, tear down only on success: a failed write leaves the
	// session recoverable so the user can resend.
	if err := e.journal.Persist(ctx, sess); err != nil {
		logger.Error("journal persist failed", "user", sess.UserID, "session", sess.ID, "err", err)
		return "⚠️ Saving the record failed. Send your mistake numbers again."
	}

	if err := sess.Fire(session.EventMistakesSaved); err != nil {
		logger.Error("phase transition failed", "user", sess.UserID, "err", err)
	}
	e.sessions.Delete(sess.UserID)
	e.quota.Commit(sess.UserID)
	logger.Info("session completed", "user", sess.UserID, "stock", sess.Stock,
		"verdict", sess.Verdict, "pnl", sess.PnL, "mistakes", strings.Join(codes, ","))

	return fmt.Sprintf("✅ Recorded!\nPnL: %s, mistakes: %s", sess.PnL, strings.Join(codes, ","))
}

func (e *Engine) lockFor(userID int64) *sync.Mutex {
	v, _ := e.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// parseStart recognizes the start command and extracts the optional ticker.
func parseStart(text string) (stock string, ok bool) {
	if text != "/start" && !strings.HasPrefix(text, "/start ") && !strings.HasPrefix(text, "/start@") {
		return "", false
	}
	rest := strings.TrimPrefix(text, "/start")
	if strings.HasPrefix(rest, "@") {
		if i := strings.Index(rest, " "); i >= 0 {
			rest = rest[i:]
		} else {
			rest = ""
		}
	}
	return strings.TrimSpace(rest), true
}

// parseYesNo normalizes a checklist answer; anything but yes/no variants is
// rejected.
func parseYesNo(text string) (answer, ok bool) {
	switch strings.ToUpper(text) {
	case "Y", "YES":
		return true, true
	case "N", "NO":
		return false, true
	}
	return false, false
}

// parsePercent accepts a signed decimal with an optional trailing percent
// marker and canonicalizes it to a signed two-decimal percent string.
func parsePercent(text string) (string, bool) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	if s == "" {
		return "", false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", false
	}
	if d.IsNegative() {
		return d.StringFixed(2) + "%", true
	}
	return "+" + d.StringFixed(2) + "%", true
}
