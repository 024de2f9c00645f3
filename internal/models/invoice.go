package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PartItem is a single named part charge on an invoice.
type PartItem struct {
	PartName    string  `bson:"part_name" json:"part_name"`
	PartCharges float64 `bson:"part_charges" json:"part_charges"`
}

// Invoice represents a billing record for a job. The derived fields
// (subtotal, gst_amount, grand_total) are computed once at creation and never
// edited; only the two dispatch flags change afterwards.
type Invoice struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InvoiceNumber    string             `bson:"invoice_number" json:"invoice_number"`
	JobID            string             `bson:"job_id" json:"job_id"`
	InvoiceDate      time.Time          `bson:"invoice_date" json:"invoice_date"`
	LabourCharges    float64            `bson:"labour_charges" json:"labour_charges"`
	Parts            []PartItem         `bson:"parts" json:"parts"`
	PartsCharges     float64            `bson:"parts_charges" json:"parts_charges"`
	TuningCharges    float64            `bson:"tuning_charges" json:"tuning_charges"`
	OthersCharges    float64            `bson:"others_charges" json:"others_charges"`
	Subtotal         float64            `bson:"subtotal" json:"subtotal"`
	GSTAmount        float64            `bson:"gst_amount" json:"gst_amount"`
	GrandTotal       float64            `bson:"grand_total" json:"grand_total"`
	SentToCustomer   bool               `bson:"sent_to_customer" json:"sent_to_customer"`
	SentToAccountant bool               `bson:"sent_to_accountant" json:"sent_to_accountant"`
}

// InvoiceCreateRequest carries the charge inputs for a new invoice.
type InvoiceCreateRequest struct {
	JobID         string     `json:"job_id"`
	LabourCharges float64    `json:"labour_charges"`
	Parts         []PartItem `json:"parts"`
	TuningCharges float64    `json:"tuning_charges"`
	OthersCharges float64    `json:"others_charges"`
	GSTRate       *float64   `json:"gst_rate"`        // default 18, 0 disables tax
	InvoiceNumber string     `json:"invoice_number"`  // optional, used verbatim
	InvoiceDate   string     `json:"invoice_date"`    // optional ISO date
}
