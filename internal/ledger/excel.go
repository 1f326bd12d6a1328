package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"
)

const (
	journalSheet = "Journal"
	statsSheet   = "MistakeStats"
)

// ExcelLedger keeps the journal in an xlsx workbook: one sheet of appended
// rows, one summary sheet rewritten on every recompute. This mirrors the
// spreadsheet the journal originally lived in.
type ExcelLedger struct {
	mu   sync.Mutex
	path string
	f    *excelize.File
}

func OpenExcel(path string) (*ExcelLedger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}

	var f *excelize.File
	if _, err := os.Stat(path); err == nil {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
	} else {
		f = excelize.NewFile()
		if err := f.SetSheetName("Sheet1", journalSheet); err != nil {
			return nil, fmt.Errorf("init journal sheet: %w", err)
		}
		if _, err := f.NewSheet(statsSheet); err != nil {
			return nil, fmt.Errorf("init stats sheet: %w", err)
		}
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook: %w", err)
		}
	}
	return &ExcelLedger{path: path, f: f}, nil
}

func (l *ExcelLedger) Append(_ context.Context, row []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.f.GetRows(journalSheet)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	if err := l.f.SetSheetRow(journalSheet, cell, &cells); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return l.save()
}

func (l *ExcelLedger) Rows(_ context.Context) ([][]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows, err := l.f.GetRows(journalSheet)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return rows, nil
}

func (l *ExcelLedger) WriteSummary(_ context.Context, stats []StatRow) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Full rewrite: drop and recreate the sheet.
	if err := l.f.DeleteSheet(statsSheet); err != nil {
		return fmt.Errorf("reset stats sheet: %w", err)
	}
	if _, err := l.f.NewSheet(statsSheet); err != nil {
		return fmt.Errorf("recreate stats sheet: %w", err)
	}
	if err := l.f.SetSheetRow(statsSheet, "A1", &[]interface{}{"mistake_code", "count"}); err != nil {
		return err
	}
	for i, st := range stats {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := l.f.SetSheetRow(statsSheet, cell, &[]interface{}{st.Code, st.Count}); err != nil {
			return fmt.Errorf("write stats row: %w", err)
		}
	}
	return l.save()
}

// Summary reads the stats sheet back (admin API and tests).
func (l *ExcelLedger) Summary(_ context.Context) ([]StatRow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows, err := l.f.GetRows(statsSheet)
	if err != nil {
		return nil, err
	}
	var stats []StatRow
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		n, err := strconv.Atoi(row[1])
		if err != nil {
			continue // corrupt count cell
		}
		stats = append(stats, StatRow{Code: row[0], Count: n})
	}
	return stats, nil
}

func (l *ExcelLedger) save() error {
	if err := l.f.SaveAs(l.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (l *ExcelLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
