package googlesheets

import (
	"context"
	"errors"
	"fmt"

	"securestock/internal/config"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer appends rows below the data already present in a range.
type Writer interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
}

type SheetWriter struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *zap.Logger
}

func NewSheetWriter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*SheetWriter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled() {
		return nil, errors.New("google sheets export is not configured")
	}

	var credentials option.ClientOption
	if cfg.CredentialsJSON != "" {
		logger.Info("using google credentials from environment")
		credentials = option.WithCredentialsJSON([]byte(cfg.CredentialsJSON))
	} else {
		logger.Info("using google credentials file", zap.String("path", cfg.CredentialsPath))
		credentials = option.WithCredentialsFile(cfg.CredentialsPath)
	}

	service, err := sheets.NewService(ctx, credentials, option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &SheetWriter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

func (w *SheetWriter) AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if sheetRange == "" {
		return errors.New("sheet range must not be empty")
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := w.service.Spreadsheets.Values.
		Append(w.spreadsheetID, sheetRange, &sheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append rows into range %s: %w", sheetRange, err)
	}

	w.logger.Debug("rows appended to sheet", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}
