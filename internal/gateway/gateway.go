// Package gateway is the side-effect boundary for notifications, document
// delivery and spreadsheet export. The core depends only on the Gateway
// interface; variants are selected by configuration.
package gateway

import (
	"context"
	"fmt"

	"github.com/icdtuning/workshop-backend/internal/models"
)

// Result reports the outcome of a notification or delivery attempt.
// Failures are data, not errors: the caller decides what to do with them.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ExportResult reports the outcome of a bulk export.
type ExportResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	JobCount int    `json:"job_count,omitempty"`
	SheetURL string `json:"sheet_url,omitempty"`
}

// Gateway sends rendered messages and documents to external channels.
type Gateway interface {
	Notify(ctx context.Context, channel, recipient, message string) Result
	DeliverDocument(ctx context.Context, channel, recipient, subject, body string, attachment []byte) Result
	BulkExport(ctx context.Context, jobs []models.Job) ExportResult
}

// ExportConfig carries the spreadsheet target. Both fields must be set for
// an export to proceed.
type ExportConfig struct {
	SheetID            string
	ServiceAccountJSON string
}

// checkExportConfig returns a structured failure when the export target is
// not configured, and a zero-value success result otherwise.
func checkExportConfig(cfg ExportConfig) (ExportResult, bool) {
	if cfg.SheetID == "" || cfg.ServiceAccountJSON == "" {
		return ExportResult{
			Success: false,
			Message: "Google Sheets integration not configured. Set GOOGLE_SHEET_ID and GOOGLE_SERVICE_ACCOUNT_JSON.",
		}, false
	}
	return ExportResult{}, true
}

func sheetURL(sheetID string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", sheetID)
}
