package gateway

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/icdtuning/workshop-backend/internal/models"
)

// Stub is the reference gateway: it logs every call and reports success.
// Bulk export still honors the export configuration so the unconfigured
// failure path behaves the same across variants.
type Stub struct {
	Export ExportConfig
}

// NewStub creates the stub gateway.
func NewStub(export ExportConfig) *Stub {
	return &Stub{Export: export}
}

// Notify logs the message and reports success.
func (s *Stub) Notify(ctx context.Context, channel, recipient, message string) Result {
	log.WithFields(log.Fields{
		"channel":   channel,
		"recipient": recipient,
	}).Infof("stub notify: %s", message)
	return Result{Success: true, Message: fmt.Sprintf("%s message sent (stub)", channel)}
}

// DeliverDocument logs the delivery and reports success.
func (s *Stub) DeliverDocument(ctx context.Context, channel, recipient, subject, body string, attachment []byte) Result {
	log.WithFields(log.Fields{
		"channel":    channel,
		"recipient":  recipient,
		"subject":    subject,
		"attachment": len(attachment),
	}).Info("stub deliver document")
	return Result{Success: true, Message: fmt.Sprintf("%s document sent (stub)", channel)}
}

// BulkExport validates the export configuration and reports a simulated
// export of the given jobs.
func (s *Stub) BulkExport(ctx context.Context, jobs []models.Job) ExportResult {
	if failure, ok := checkExportConfig(s.Export); !ok {
		return failure
	}
	if len(jobs) == 0 {
		return ExportResult{Success: false, Message: "No jobs found to export"}
	}

	log.Infof("stub export: %d jobs to sheet %s", len(jobs), s.Export.SheetID)
	return ExportResult{
		Success:  true,
		Message:  fmt.Sprintf("Successfully exported %d jobs to Google Sheets", len(jobs)),
		JobCount: len(jobs),
		SheetURL: sheetURL(s.Export.SheetID),
	}
}
