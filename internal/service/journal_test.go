package service

import (
	"context"
	"errors"
	"testing"

	"trade-gate/internal/checklist"
	"trade-gate/internal/ledger"
	"trade-gate/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger keeps rows and the summary in memory.
type fakeLedger struct {
	rows          [][]string
	summary       []ledger.StatRow
	summaryWrites int
	appendErr     error
}

func (f *fakeLedger) Append(_ context.Context, row []string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeLedger) Rows(_ context.Context) ([][]string, error) { return f.rows, nil }

func (f *fakeLedger) WriteSummary(_ context.Context, stats []ledger.StatRow) error {
	f.summary = stats
	f.summaryWrites++
	return nil
}

func (f *fakeLedger) Summary(_ context.Context) ([]ledger.StatRow, error) { return f.summary, nil }
func (f *fakeLedger) Close() error                                        { return nil }

func finishedSession(mistakes ...string) *session.Session {
	sess := session.New(1, "TSLA")
	sess.Answers = []bool{true, false, true}
	sess.YesCount = 2
	sess.Verdict = checklist.VerdictRejectScore
	sess.Date = "2026-08-28"
	sess.Time = "09:41"
	sess.PnL = "-2.00%"
	sess.Mistakes = mistakes
	return sess
}

func TestJournalPersistAppendsAndRecomputes(t *testing.T) {
	fl := &fakeLedger{}
	j := NewJournal(fl, 3)

	require.NoError(t, j.Persist(context.Background(), finishedSession("1", "3")))
	require.NoError(t, j.Persist(context.Background(), finishedSession("3")))

	require.Len(t, fl.rows, 2)
	assert.Equal(t, "1,3", fl.rows[0][ledger.MistakeCol(3)])

	assert.Equal(t, []ledger.StatRow{{Code: "1", Count: 1}, {Code: "3", Count: 2}}, fl.summary)
}

func TestJournalPersistSurfacesAppendError(t *testing.T) {
	fl := &fakeLedger{appendErr: errors.New("disk full")}
	j := NewJournal(fl, 3)

	err := j.Persist(context.Background(), finishedSession("1"))
	require.Error(t, err)
	assert.Empty(t, fl.rows)
	assert.Zero(t, fl.summaryWrites)
}

func TestRecomputeSortsNumerically(t *testing.T) {
	fl := &fakeLedger{}
	j := NewJournal(fl, 2)

	// Codes 10 and 2: numeric order puts 2 first, lexical would not.
	fl.rows = [][]string{
		{"d", "t", "s", "Y", "N", "1", "approve", "+1.00%", "10,2"},
		{"d", "t", "s", "Y", "Y", "2", "approve", "+1.00%", "2"},
	}
	require.NoError(t, j.RecomputeMistakeStats(context.Background()))
	assert.Equal(t, []ledger.StatRow{{Code: "2", Count: 2}, {Code: "10", Count: 1}}, fl.summary)
}

func TestRecomputeIdempotent(t *testing.T) {
	fl := &fakeLedger{}
	j := NewJournal(fl, 3)
	require.NoError(t, j.Persist(context.Background(), finishedSession("2", "4")))

	first := fl.summary
	require.NoError(t, j.RecomputeMistakeStats(context.Background()))
	assert.Equal(t, first, fl.summary)
	assert.Equal(t, 2, fl.summaryWrites)
}

func TestRecomputeToleratesShortRows(t *testing.T) {
	fl := &fakeLedger{}
	j := NewJournal(fl, 3)

	fl.rows = [][]string{
		{"d", "t", "s"}, // short row: contributes zero codes
		{"d", "t", "s", "Y", "N", "Y", "2", "approve", "+1.00%", "5"},
	}
	require.NoError(t, j.RecomputeMistakeStats(context.Background()))
	assert.Equal(t, []ledger.StatRow{{Code: "5", Count: 1}}, fl.summary)
}

func TestRecomputeSkipsWhenColumnMissing(t *testing.T) {
	fl := &fakeLedger{}
	j := NewJournal(fl, 3)

	// Every row predates the mistake column: leave the summary untouched.
	fl.rows = [][]string{
		{"d", "t", "s", "Y", "N", "Y"},
		{"d", "t", "s", "N", "N", "N"},
	}
	require.NoError(t, j.RecomputeMistakeStats(context.Background()))
	assert.Zero(t, fl.summaryWrites)
}

func TestRecomputeEmptyJournal(t *testing.T) {
	fl := &fakeLedger{}
	j := NewJournal(fl, 3)
	require.NoError(t, j.RecomputeMistakeStats(context.Background()))
	assert.Empty(t, fl.summary)
	assert.Equal(t, 1, fl.summaryWrites)
}
