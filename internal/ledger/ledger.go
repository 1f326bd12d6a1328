package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// A journal row is flat and positional: date, time, stock, one Y/N column
// per question, yes-count, verdict, pnl, comma-joined mistake codes. The
// column count must match the active checklist length; both backends write
// and read this exact shape.
const fixedLeadCols = 3 // date, time, stock
const fixedTailCols = 4 // yes-count, verdict, pnl, mistakes

// Entry is one completed session in structured form.
type Entry struct {
	Date     string
	Time     string
	Stock    string
	Answers  []bool
	YesCount int
	Verdict  string
	PnL      string
	Mistakes []string
}

// StatRow is one line of the mistake-frequency summary.
type StatRow struct {
	Code  string
	Count int
}

// Ledger is the tabular store: append-only rows plus a summary area that is
// rewritten wholesale.
type Ledger interface {
	Append(ctx context.Context, row []string) error
	Rows(ctx context.Context) ([][]string, error)
	WriteSummary(ctx context.Context, stats []StatRow) error
	Summary(ctx context.Context) ([]StatRow, error)
	Close() error
}

// Width returns the full row width for a checklist of n questions.
func Width(n int) int { return fixedLeadCols + n + fixedTailCols }

// MistakeCol returns the 0-based index of the mistake-code column for a
// checklist of n questions.
func MistakeCol(n int) int { return Width(n) - 1 }

// Flatten encodes an entry in the fixed column order.
func Flatten(e Entry) []string {
	row := make([]string, 0, Width(len(e.Answers)))
	row = append(row, e.Date, e.Time, e.Stock)
	for _, a := range e.Answers {
		if a {
			row = append(row, "Y")
		} else {
			row = append(row, "N")
		}
	}
	row = append(row,
		strconv.Itoa(e.YesCount),
		e.Verdict,
		e.PnL,
		strings.Join(e.Mistakes, ","),
	)
	return row
}

// ParseAnswers reconstructs the boolean answer sequence from a row written
// for a checklist of n questions.
func ParseAnswers(row []string, n int) ([]bool, error) {
	if len(row) < fixedLeadCols+n {
		return nil, fmt.Errorf("ledger: row has %d columns, want at least %d", len(row), fixedLeadCols+n)
	}
	answers := make([]bool, n)
	for i := 0; i < n; i++ {
		switch row[fixedLeadCols+i] {
		case "Y":
			answers[i] = true
		case "N":
			answers[i] = false
		default:
			return nil, fmt.Errorf("ledger: bad answer token %q at column %d", row[fixedLeadCols+i], fixedLeadCols+i)
		}
	}
	return answers, nil
}
