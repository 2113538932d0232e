package stocks

import (
	"bytes"
	"context"
	"fmt"

	"securestock/pkg/models"

	"github.com/xuri/excelize/v2"
)

const (
	itemsSheet   = "Items"
	summarySheet = "Summary"
)

var (
	itemHeaders    = []interface{}{"Name", "Park number", "Serial number", "Category", "Status", "Assigned to", "Location", "Problem"}
	summaryHeaders = []interface{}{"Category", "Threshold", "Total", "Available", "Allocated", "In maintenance", "Level"}
)

type SummaryProvider interface {
	Summary(ctx context.Context) ([]models.CategorySummary, error)
}

type Exporter struct {
	service *StockService
	summary SummaryProvider
}

func NewExporter(s *StockService, summary SummaryProvider) *Exporter {
	return &Exporter{service: s, summary: summary}
}

// Export renders every stock item plus the category summary as an xlsx workbook.
func (e *Exporter) Export(ctx context.Context) (*bytes.Buffer, error) {
	items, err := e.service.GetStockItems(ctx, models.StockItemFilter{})
	if err != nil {
		return nil, err
	}

	summary, err := e.summary.Summary(ctx)
	if err != nil {
		return nil, err
	}

	f, err := BuildWorkbook(items, summary)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.WriteToBuffer()
}

func BuildWorkbook(items []models.StockItem, summary []models.CategorySummary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}

	if err := writeRow(f, itemsSheet, 1, itemHeaders); err != nil {
		return nil, err
	}
	for i, item := range items {
		row := []interface{}{
			item.Name,
			deref(item.ParkNumber),
			deref(item.SerialNumber),
			item.Category,
			item.Status.Label(),
			deref(item.AssignedToName),
			deref(item.Location),
			deref(item.ProblemDescription),
		}
		if err := writeRow(f, itemsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, summarySheet, 1, summaryHeaders); err != nil {
		return nil, err
	}
	for i, s := range summary {
		row := []interface{}{s.Name, s.CriticalThreshold, s.Total, s.Available, s.Allocated, s.InMaintenance, string(s.Level)}
		if err := writeRow(f, summarySheet, i+2, row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
