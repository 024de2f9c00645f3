package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/icdtuning/workshop-backend/internal/db"
	"github.com/icdtuning/workshop-backend/internal/gateway"
	"github.com/icdtuning/workshop-backend/internal/middleware"
	"github.com/icdtuning/workshop-backend/internal/models"
	"github.com/icdtuning/workshop-backend/internal/pdf"
	"github.com/icdtuning/workshop-backend/internal/services"
)

// InvoiceHandler handles invoice creation, listing, PDF download, dispatch
// and the spreadsheet export.
type InvoiceHandler struct {
	invoiceService *services.InvoiceService
	invoices       db.InvoiceCollection
	jobs           db.JobCollection
	gw             gateway.Gateway
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(invoiceService *services.InvoiceService, invoices db.InvoiceCollection, jobs db.JobCollection, gw gateway.Gateway) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		invoices:       invoices,
		jobs:           jobs,
		gw:             gw,
	}
}

// Create computes and persists an invoice for a job. Managers only.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req models.InvoiceCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	invoice, err := h.invoiceService.Create(r.Context(), claims.Role, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}

// ListByJob lists all invoices for a job. Managers only.
func (h *InvoiceHandler) ListByJob(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if claims.Role != models.RoleManager {
		http.Error(w, "Only managers can view invoices", http.StatusForbidden)
		return
	}

	invoices, err := h.invoices.FindInvoicesByJob(r.Context(), r.PathValue("job_id"))
	if err != nil {
		http.Error(w, "Failed to list invoices", http.StatusInternalServerError)
		return
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}

	writeJSON(w, http.StatusOK, invoices)
}

// PDF streams the rendered invoice document as a download. Managers only.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if claims.Role != models.RoleManager {
		http.Error(w, "Only managers can access invoices", http.StatusForbidden)
		return
	}

	invoice, err := h.invoices.FindInvoiceByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invoice not found", http.StatusNotFound)
		return
	}

	// Rendering runs after persistence succeeded, so a missing job is
	// rendered with empty fields instead of failing.
	job, _ := h.jobs.FindJobByID(r.Context(), invoice.JobID)

	pdfBytes, err := pdf.InvoiceDocument(invoice, job)
	if err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.InvoiceNumber))
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
	w.Write(pdfBytes)
}

// Send dispatches an invoice to the customer or the accountant and records
// the corresponding flag. Managers only.
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if claims.Role != models.RoleManager {
		http.Error(w, "Only managers can send invoices", http.StatusForbidden)
		return
	}

	invoiceID := r.PathValue("id")
	invoice, err := h.invoices.FindInvoiceByID(r.Context(), invoiceID)
	if err != nil {
		http.Error(w, "Invoice not found", http.StatusNotFound)
		return
	}

	job, _ := h.jobs.FindJobByID(r.Context(), invoice.JobID)

	var result gateway.Result
	switch r.URL.Query().Get("send_type") {
	case "customer":
		contact := ""
		if job != nil {
			contact = job.ContactNumber
		}
		result = h.gw.Notify(r.Context(), "whatsapp", contact,
			fmt.Sprintf("Your invoice %s is ready. Total: ₹%.2f", invoice.InvoiceNumber, invoice.GrandTotal))
		if result.Success {
			if err := h.invoices.SetDispatchFlag(r.Context(), invoiceID, "sent_to_customer"); err != nil {
				http.Error(w, "Failed to update invoice", http.StatusInternalServerError)
				return
			}
		}
	case "accountant":
		body := fmt.Sprintf("Invoice %s", invoice.InvoiceNumber)
		if job != nil {
			body = fmt.Sprintf("Invoice for %s - %s", job.CustomerName, job.CarModel)
		}
		attachment, _ := pdf.InvoiceDocument(invoice, job)
		result = h.gw.DeliverDocument(r.Context(), "email", "accountant@icdtuning.com",
			fmt.Sprintf("Invoice %s", invoice.InvoiceNumber), body, attachment)
		if result.Success {
			if err := h.invoices.SetDispatchFlag(r.Context(), invoiceID, "sent_to_accountant"); err != nil {
				http.Error(w, "Failed to update invoice", http.StatusInternalServerError)
				return
			}
		}
	default:
		http.Error(w, "Invalid send type", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Export mirrors every job to the configured spreadsheet. Managers only.
// The gateway's structured result is returned as-is, success or not.
func (h *InvoiceHandler) Export(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if claims.Role != models.RoleManager {
		http.Error(w, "Only managers can export data", http.StatusForbidden)
		return
	}

	jobs, err := h.jobs.FindJobs(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Failed to load jobs", http.StatusInternalServerError)
		return
	}

	result := h.gw.BulkExport(r.Context(), jobs)
	writeJSON(w, http.StatusOK, result)
}
