// Package pdf renders invoices into the fixed ICD Tuning letterhead layout.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/icdtuning/workshop-backend/internal/models"
)

const (
	pageWidth  = 612.0 // US Letter, points
	pageHeight = 792.0

	// maximum work-description length rendered on the invoice
	workDescriptionLimit = 70
)

// InvoiceDocument renders an invoice and its job into a single-page PDF.
// Missing job fields render as empty strings; rendering never fails on
// content. Output is reproducible byte-for-byte for a given invoice: the
// document creation date is pinned to the invoice date and catalog sorting
// fixes the order the font resources are written in, which otherwise follows
// map iteration order.
func InvoiceDocument(inv *models.Invoice, job *models.Job) ([]byte, error) {
	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.SetCreationDate(inv.InvoiceDate)
	doc.SetCatalogSort(true)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	// Full-bleed dark background
	doc.SetFillColor(0, 0, 0)
	doc.Rect(0, 0, pageWidth, pageHeight, "F")

	// Brand wordmark and title
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "B", 24)
	doc.Text(50, 60, "ICD TUNING")

	doc.SetTextColor(211, 47, 47)
	doc.SetFont("Helvetica", "B", 32)
	doc.Text(pageWidth-200, 60, "INVOICE")

	// Business contact block
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "", 10)
	doc.Text(50, 100, tr("ICD Tuning – Performance Tuning | ECU Remaps | Custom Builds"))
	doc.Text(50, 115, "Chennai, Tamil Nadu")
	doc.Text(50, 130, "+91 98765 43210 | icdtuning@gmail.com")

	// Invoice metadata
	doc.SetFont("Helvetica", "B", 11)
	doc.Text(50, 180, "Invoice No: "+inv.InvoiceNumber)
	doc.Text(50, 200, "Date: "+inv.InvoiceDate.Format("02-01-2006"))
	doc.Text(50, 220, "Customer: "+jobField(job, func(j *models.Job) string { return j.CustomerName }))
	doc.Text(50, 240, "Car: "+carLine(job))
	doc.Text(50, 260, "Reg No: "+jobField(job, func(j *models.Job) string { return j.RegistrationNumber }))

	doc.SetFont("Helvetica", "", 10)
	doc.Text(50, 290, tr("Work: "+truncate(jobField(job, func(j *models.Job) string { return j.WorkDescription }), workDescriptionLimit)))

	// Rule above the charges table
	doc.SetDrawColor(211, 47, 47)
	doc.SetLineWidth(2)
	doc.Line(50, 320, pageWidth-50, 320)

	amountX := pageWidth - 150

	doc.SetFont("Helvetica", "B", 11)
	doc.Text(50, 360, "Description")
	doc.Text(amountX, 360, tr("Amount (₹)"))

	doc.SetFont("Helvetica", "", 10)
	y := 385.0
	for _, row := range []struct {
		label  string
		amount float64
	}{
		{"Labour Charges", inv.LabourCharges},
		{"Parts Charges", inv.PartsCharges},
		{"ECU Tuning/Remapping", inv.TuningCharges},
		{"Other Charges", inv.OthersCharges},
	} {
		doc.Text(50, y, row.label)
		doc.Text(amountX, y, fmt.Sprintf("%.2f", row.amount))
		y += 20
	}

	doc.SetDrawColor(255, 255, 255)
	doc.SetLineWidth(1)
	y -= 5
	doc.Line(pageWidth-200, y, pageWidth-50, y)

	y += 25
	doc.SetFont("Helvetica", "B", 10)
	doc.Text(50, y, "Subtotal")
	doc.Text(amountX, y, fmt.Sprintf("%.2f", inv.Subtotal))

	// The GST line appears only when tax was actually charged. The shown
	// percentage is recomputed from the persisted amounts.
	if inv.GSTAmount > 0 {
		gstPercent := 0.0
		if inv.Subtotal > 0 {
			gstPercent = inv.GSTAmount / inv.Subtotal * 100
		}
		y += 20
		doc.Text(50, y, fmt.Sprintf("GST (%.1f%%)", gstPercent))
		doc.Text(amountX, y, fmt.Sprintf("%.2f", inv.GSTAmount))
	}

	doc.SetDrawColor(211, 47, 47)
	doc.SetLineWidth(2)
	y += 15
	doc.Line(pageWidth-200, y, pageWidth-50, y)

	y += 30
	doc.SetTextColor(211, 47, 47)
	doc.SetFont("Helvetica", "B", 14)
	doc.Text(50, y, "GRAND TOTAL")
	doc.Text(amountX, y, tr(fmt.Sprintf("₹ %.2f", inv.GrandTotal)))

	// Signatures and disclaimer
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "", 8)
	doc.Text(50, pageHeight-80, "Signature: _______________________")
	doc.Text(pageWidth-250, pageHeight-80, "Customer Signature: _______________________")

	doc.SetFont("Helvetica", "I", 9)
	doc.Text(50, pageHeight-50, "Terms: All tuning work done by ICD Tuning is tested and verified for safety and performance.")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func jobField(job *models.Job, get func(*models.Job) string) string {
	if job == nil {
		return ""
	}
	return get(job)
}

func carLine(job *models.Job) string {
	if job == nil {
		return ""
	}
	return fmt.Sprintf("%s %s (%d)", job.CarBrand, job.CarModel, job.Year)
}

// truncate bounds a string to limit characters, never splitting a rune.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
