package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"trade-gate/internal/ledger"
	"trade-gate/internal/logger"
	"trade-gate/internal/session"
)

// Journal shapes a finished session into a flat row, appends it, and
// refreshes the mistake-frequency summary from the full journal.
type Journal struct {
	ledger    ledger.Ledger
	questions int
}

func NewJournal(l ledger.Ledger, questions int) *Journal {
	return &Journal{ledger: l, questions: questions}
}

func (j *Journal) Persist(ctx context.Context, sess *session.Session) error {
	entry := ledger.Entry{
		Date:     sess.Date,
		Time:     sess.Time,
		Stock:    sess.Stock,
		Answers:  sess.Answers,
		YesCount: sess.YesCount,
		Verdict:  string(sess.Verdict),
		PnL:      sess.PnL,
		Mistakes: sess.Mistakes,
	}
	if err := j.ledger.Append(ctx, ledger.Flatten(entry)); err != nil {
		return fmt.Errorf("append journal row: %w", err)
	}

	// Summary staleness is tolerable; a lost row is not. Recompute errors
	// are logged, not surfaced.
	if err := j.RecomputeMistakeStats(ctx); err != nil {
		logger.Warn("mistake stats recompute failed", "err", err)
	}
	return nil
}

// RecomputeMistakeStats rebuilds the summary from every journal row: the
// mistake column is re-split on commas and counted per code, sorted
// ascending by numeric code value. Rows too short to carry the column
// contribute nothing; if no row carries it at all the summary is left
// untouched.
func (j *Journal) RecomputeMistakeStats(ctx context.Context) error {
	rows, err := j.ledger.Rows(ctx)
	if err != nil {
		return fmt.Errorf("read journal rows: %w", err)
	}

	col := ledger.MistakeCol(j.questions)
	counts := make(map[string]int)
	sawColumn := false
	for _, row := range rows {
		if len(row) <= col {
			continue
		}
		sawColumn = true
		for _, part := range strings.Split(row[col], ",") {
			code := strings.TrimSpace(part)
			if code == "" {
				continue
			}
			counts[code]++
		}
	}
	if len(rows) > 0 && !sawColumn {
		logger.Warn("mistake column missing from journal, skipping recompute", "rows", len(rows), "want_col", col+1)
		return nil
	}

	stats := make([]ledger.StatRow, 0, len(counts))
	for code, n := range counts {
		stats = append(stats, ledger.StatRow{Code: code, Count: n})
	}
	sortStats(stats)

	if err := j.ledger.WriteSummary(ctx, stats); err != nil {
		return fmt.Errorf("write mistake summary: %w", err)
	}
	return nil
}

// sortStats orders ascending by numeric code value; non-numeric codes sort
// after numeric ones, lexically.
func sortStats(stats []ledger.StatRow) {
	sort.Slice(stats, func(i, j int) bool {
		a, aerr := strconv.Atoi(stats[i].Code)
		b, berr := strconv.Atoi(stats[j].Code)
		switch {
		case aerr == nil && berr == nil:
			return a < b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		default:
			return stats[i].Code < stats[j].Code
		}
	})
}
