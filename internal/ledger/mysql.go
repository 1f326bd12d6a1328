package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

type JournalRow struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	TradeDate string    `gorm:"type:date" json:"trade_date"`
	TradeTime string    `json:"trade_time"`
	Stock     string    `json:"stock"`
	Answers   string    `json:"answers"` // comma-joined Y/N in question order
	YesCount  int       `json:"yes_count"`
	Verdict   string    `json:"verdict"`
	PnL       string    `gorm:"column:pnl" json:"pnl"`
	Mistakes  string    `json:"mistakes"`
	CreatedAt time.Time `json:"created_at"`
}

type MistakeStat struct {
	Code  string `gorm:"primaryKey" json:"code"`
	Count int    `json:"count"`
}

func (JournalRow) TableName() string  { return "journal_rows" }
func (MistakeStat) TableName() string { return "mistake_stats" }

// MySQLLedger stores journal rows in a table instead of a workbook. The
// flat row shape is identical so callers cannot tell the backends apart.
type MySQLLedger struct {
	db *gorm.DB
}

func OpenMySQL(db *gorm.DB) (*MySQLLedger, error) {
	if err := db.AutoMigrate(&JournalRow{}, &MistakeStat{}); err != nil {
		return nil, fmt.Errorf("migrate ledger tables: %w", err)
	}
	return &MySQLLedger{db: db}, nil
}

func (l *MySQLLedger) Append(ctx context.Context, row []string) error {
	if len(row) < fixedLeadCols+fixedTailCols {
		return fmt.Errorf("ledger: row too short (%d columns)", len(row))
	}
	n := len(row) - fixedLeadCols - fixedTailCols
	yes, _ := strconv.Atoi(row[fixedLeadCols+n])
	rec := JournalRow{
		TradeDate: row[0],
		TradeTime: row[1],
		Stock:     row[2],
		Answers:   strings.Join(row[fixedLeadCols:fixedLeadCols+n], ","),
		YesCount:  yes,
		Verdict:   row[fixedLeadCols+n+1],
		PnL:       row[fixedLeadCols+n+2],
		Mistakes:  row[fixedLeadCols+n+3],
	}
	if err := l.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert journal row: %w", err)
	}
	return nil
}

func (l *MySQLLedger) Rows(ctx context.Context) ([][]string, error) {
	var recs []JournalRow
	if err := l.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("query journal rows: %w", err)
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		row := []string{r.TradeDate, r.TradeTime, r.Stock}
		if r.Answers != "" {
			row = append(row, strings.Split(r.Answers, ",")...)
		}
		row = append(row, strconv.Itoa(r.YesCount), r.Verdict, r.PnL, r.Mistakes)
		rows = append(rows, row)
	}
	return rows, nil
}

func (l *MySQLLedger) WriteSummary(ctx context.Context, stats []StatRow) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&MistakeStat{}).Error; err != nil {
			return fmt.Errorf("clear mistake stats: %w", err)
		}
		for _, st := range stats {
			if err := tx.Create(&MistakeStat{Code: st.Code, Count: st.Count}).Error; err != nil {
				return fmt.Errorf("insert mistake stat: %w", err)
			}
		}
		return nil
	})
}

func (l *MySQLLedger) Summary(ctx context.Context) ([]StatRow, error) {
	var recs []MistakeStat
	if err := l.db.WithContext(ctx).Order("length(code), code").Find(&recs).Error; err != nil {
		return nil, err
	}
	stats := make([]StatRow, 0, len(recs))
	for _, r := range recs {
		stats = append(stats, StatRow{Code: r.Code, Count: r.Count})
	}
	return stats, nil
}

func (l *MySQLLedger) Close() error { return nil }
