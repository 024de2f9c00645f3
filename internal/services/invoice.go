package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/icdtuning/workshop-backend/internal/db"
	"github.com/icdtuning/workshop-backend/internal/models"
)

// DefaultGSTRate is applied when the caller does not supply a rate.
const DefaultGSTRate = 18.0

// InvoiceService computes, numbers and persists invoices.
type InvoiceService struct {
	jobs     db.JobCollection
	invoices db.InvoiceCollection
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(jobs db.JobCollection, invoices db.InvoiceCollection) *InvoiceService {
	return &InvoiceService{jobs: jobs, invoices: invoices}
}

// ComputeTotals calculates the parts total, subtotal, GST amount and grand
// total for a set of charge inputs. A zero GST rate yields an exact zero
// GST amount rather than relying on the multiplication.
func ComputeTotals(labour float64, parts []models.PartItem, tuning, others, gstRate float64) (partsTotal, subtotal, gstAmount, grandTotal float64) {
	for _, p := range parts {
		partsTotal += p.PartCharges
	}
	subtotal = labour + partsTotal + tuning + others
	if gstRate > 0 {
		gstAmount = subtotal * gstRate / 100
	}
	grandTotal = subtotal + gstAmount
	return
}

// Create validates the request, computes totals and persists one invoice.
// Only managers may create invoices, and the referenced job must exist.
//
// When no invoice number is supplied, one is generated from the current
// invoice count. The count and the insert are not transactional, so two
// concurrent creations can observe the same count and generate the same
// number.
func (s *InvoiceService) Create(ctx context.Context, actorRole models.Role, req models.InvoiceCreateRequest) (*models.Invoice, error) {
	if actorRole != models.RoleManager {
		return nil, fmt.Errorf("%w: only managers can create invoices", ErrPermission)
	}

	if _, err := s.jobs.FindJobByID(ctx, req.JobID); err != nil {
		return nil, fmt.Errorf("job %s: %w", req.JobID, err)
	}

	gstRate := DefaultGSTRate
	if req.GSTRate != nil {
		gstRate = *req.GSTRate
	}
	if gstRate < 0 {
		return nil, fmt.Errorf("%w: gst_rate must not be negative", ErrValidation)
	}

	partsTotal, subtotal, gstAmount, grandTotal := ComputeTotals(
		req.LabourCharges, req.Parts, req.TuningCharges, req.OthersCharges, gstRate)

	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		generated, err := s.nextInvoiceNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("generate invoice number: %w", err)
		}
		number = generated
	}

	invoiceDate := time.Now().UTC()
	if strings.TrimSpace(req.InvoiceDate) != "" {
		parsed, err := ParseISODate(req.InvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid invoice_date", ErrValidation)
		}
		invoiceDate = parsed
	}

	parts := req.Parts
	if parts == nil {
		parts = []models.PartItem{}
	}

	invoice := models.Invoice{
		InvoiceNumber: number,
		JobID:         req.JobID,
		InvoiceDate:   invoiceDate,
		LabourCharges: req.LabourCharges,
		Parts:         parts,
		PartsCharges:  partsTotal,
		TuningCharges: req.TuningCharges,
		OthersCharges: req.OthersCharges,
		Subtotal:      subtotal,
		GSTAmount:     gstAmount,
		GrandTotal:    grandTotal,
	}

	id, err := s.invoices.InsertInvoice(ctx, invoice)
	if err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}
	invoice.ID, _ = primitive.ObjectIDFromHex(id)

	return &invoice, nil
}

// nextInvoiceNumber generates "ICD-<year>-NNNN" where NNNN is the current
// invoice count plus one, zero-padded to four digits.
func (s *InvoiceService) nextInvoiceNumber(ctx context.Context) (string, error) {
	count, err := s.invoices.CountInvoices(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ICD-%s-%04d", time.Now().Format("2006"), count+1), nil
}
