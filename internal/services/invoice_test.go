package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/icdtuning/workshop-backend/internal/db"
	"github.com/icdtuning/workshop-backend/internal/models"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name       string
		labour     float64
		parts      []models.PartItem
		tuning     float64
		others     float64
		gstRate    float64
		subtotal   float64
		gstAmount  float64
		grandTotal float64
	}{
		{
			name:       "worked example",
			labour:     1000,
			parts:      []models.PartItem{{PartName: "Filter", PartCharges: 200}},
			tuning:     1500,
			others:     0,
			gstRate:    18,
			subtotal:   2700,
			gstAmount:  486,
			grandTotal: 3186,
		},
		{
			name:       "zero rate disables tax",
			labour:     500,
			tuning:     250,
			gstRate:    0,
			subtotal:   750,
			gstAmount:  0,
			grandTotal: 750,
		},
		{
			name:       "zero rate with zero subtotal",
			gstRate:    0,
			subtotal:   0,
			gstAmount:  0,
			grandTotal: 0,
		},
		{
			name:   "empty parts list counts as zero",
			labour: 100,
			parts:  []models.PartItem{},
			// 18% of 100
			gstRate:    18,
			subtotal:   100,
			gstAmount:  18,
			grandTotal: 118,
		},
		{
			name:   "multiple parts are summed",
			labour: 0,
			parts: []models.PartItem{
				{PartName: "Clutch", PartCharges: 5000},
				{PartName: "Flywheel", PartCharges: 3000},
				{PartName: "Fluid", PartCharges: 450},
			},
			gstRate:    0,
			subtotal:   8450,
			gstAmount:  0,
			grandTotal: 8450,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, subtotal, gstAmount, grandTotal := ComputeTotals(tt.labour, tt.parts, tt.tuning, tt.others, tt.gstRate)
			if subtotal != tt.subtotal {
				t.Errorf("subtotal = %v, want %v", subtotal, tt.subtotal)
			}
			if gstAmount != tt.gstAmount {
				t.Errorf("gstAmount = %v, want %v", gstAmount, tt.gstAmount)
			}
			if grandTotal != tt.grandTotal {
				t.Errorf("grandTotal = %v, want %v", grandTotal, tt.grandTotal)
			}
			if grandTotal != subtotal+gstAmount {
				t.Errorf("grandTotal %v != subtotal %v + gstAmount %v", grandTotal, subtotal, gstAmount)
			}
		})
	}
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	newService := func() (*InvoiceService, *fakeJobs, *fakeInvoices, string) {
		job := &models.Job{CustomerName: "Arun"}
		jobs := newFakeJobs(job)
		invoices := &fakeInvoices{}
		return NewInvoiceService(jobs, invoices), jobs, invoices, job.ID.Hex()
	}

	t.Run("computes and persists totals", func(t *testing.T) {
		svc, _, invoices, jobID := newService()

		inv, err := svc.Create(ctx, models.RoleManager, models.InvoiceCreateRequest{
			JobID:         jobID,
			LabourCharges: 1000,
			Parts:         []models.PartItem{{PartName: "Filter", PartCharges: 200}},
			TuningCharges: 1500,
			OthersCharges: 0,
		})
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		if inv.Subtotal != 2700 || inv.GSTAmount != 486 || inv.GrandTotal != 3186 {
			t.Errorf("totals = %v/%v/%v, want 2700/486/3186", inv.Subtotal, inv.GSTAmount, inv.GrandTotal)
		}
		if inv.PartsCharges != 200 {
			t.Errorf("parts charges = %v, want 200", inv.PartsCharges)
		}
		if len(invoices.invoices) != 1 {
			t.Fatalf("persisted %d invoices, want 1", len(invoices.invoices))
		}
	})

	t.Run("gst rate zero short-circuits", func(t *testing.T) {
		svc, _, _, jobID := newService()
		zero := 0.0

		inv, err := svc.Create(ctx, models.RoleManager, models.InvoiceCreateRequest{
			JobID:         jobID,
			LabourCharges: 1000,
			GSTRate:       &zero,
		})
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if inv.GSTAmount != 0 {
			t.Errorf("gst amount = %v, want exactly 0", inv.GSTAmount)
		}
		if inv.GrandTotal != inv.Subtotal {
			t.Errorf("grand total = %v, want subtotal %v", inv.GrandTotal, inv.Subtotal)
		}
	})

	t.Run("generated numbers increment with zero padding", func(t *testing.T) {
		svc, _, _, jobID := newService()
		year := time.Now().Format("2006")

		for i := 1; i <= 3; i++ {
			inv, err := svc.Create(ctx, models.RoleManager, models.InvoiceCreateRequest{JobID: jobID})
			if err != nil {
				t.Fatalf("Create %d returned error: %v", i, err)
			}
			want := fmt.Sprintf("ICD-%s-%04d", year, i)
			if inv.InvoiceNumber != want {
				t.Errorf("invoice number = %q, want %q", inv.InvoiceNumber, want)
			}
		}
	})

	t.Run("caller supplied number and date are used verbatim", func(t *testing.T) {
		svc, _, _, jobID := newService()

		inv, err := svc.Create(ctx, models.RoleManager, models.InvoiceCreateRequest{
			JobID:         jobID,
			InvoiceNumber: "  CUSTOM-77 ",
			InvoiceDate:   "2025-03-15T10:00:00Z",
		})
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if inv.InvoiceNumber != "CUSTOM-77" {
			t.Errorf("invoice number = %q, want CUSTOM-77", inv.InvoiceNumber)
		}
		want := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
		if !inv.InvoiceDate.Equal(want) {
			t.Errorf("invoice date = %v, want %v", inv.InvoiceDate, want)
		}
	})

	t.Run("mechanic is rejected", func(t *testing.T) {
		svc, _, _, jobID := newService()

		_, err := svc.Create(ctx, models.RoleMechanic, models.InvoiceCreateRequest{JobID: jobID})
		if !errors.Is(err, ErrPermission) {
			t.Errorf("error = %v, want ErrPermission", err)
		}
	})

	t.Run("missing job is rejected", func(t *testing.T) {
		svc, _, _, _ := newService()

		_, err := svc.Create(ctx, models.RoleManager, models.InvoiceCreateRequest{JobID: "65b000000000000000000000"})
		if !errors.Is(err, db.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("negative gst rate is rejected", func(t *testing.T) {
		svc, _, _, jobID := newService()
		negative := -5.0

		_, err := svc.Create(ctx, models.RoleManager, models.InvoiceCreateRequest{JobID: jobID, GSTRate: &negative})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})
}
