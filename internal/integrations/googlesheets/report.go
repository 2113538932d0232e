package googlesheets

import (
	"context"
	"fmt"
	"time"

	"securestock/pkg/models"

	"go.uber.org/zap"
)

type SummaryProvider interface {
	Summary(ctx context.Context) ([]models.CategorySummary, error)
}

// StockReport appends one row per category to the configured range:
// date, category, total, available, threshold, level.
type StockReport struct {
	writer     Writer
	summary    SummaryProvider
	sheetRange string
	logger     *zap.Logger
	now        func() time.Time
}

func NewStockReport(writer Writer, summary SummaryProvider, sheetRange string, logger *zap.Logger) *StockReport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockReport{
		writer:     writer,
		summary:    summary,
		sheetRange: sheetRange,
		logger:     logger,
		now:        time.Now,
	}
}

// Sync writes the current category summary and returns how many rows were sent.
func (r *StockReport) Sync(ctx context.Context) (int, error) {
	summary, err := r.summary.Summary(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to build category summary: %w", err)
	}

	rows := SummaryRows(models.NewDate(r.now()), summary)
	if err := r.writer.AppendRows(ctx, r.sheetRange, rows); err != nil {
		return 0, err
	}

	r.logger.Info("stock report synced", zap.Int("categories", len(rows)), zap.String("range", r.sheetRange))
	return len(rows), nil
}

func SummaryRows(date models.Date, summary []models.CategorySummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(summary))
	for _, c := range summary {
		rows = append(rows, []interface{}{
			date.String(),
			c.Name,
			c.Total,
			c.Available,
			c.CriticalThreshold,
			string(c.Level),
		})
	}
	return rows
}
