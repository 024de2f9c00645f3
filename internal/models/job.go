package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusWorkComplete is the terminal status label that records a job's
// completion date the first time it is reached.
const StatusWorkComplete = "Work complete"

// StatusCarReceived is the default status for a freshly created job.
const StatusCarReceived = "Car Received"

// Job represents a vehicle service ticket.
type Job struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerName       string             `bson:"customer_name" json:"customer_name"`
	ContactNumber      string             `bson:"contact_number" json:"contact_number"`
	CarBrand           string             `bson:"car_brand" json:"car_brand"`
	CarModel           string             `bson:"car_model" json:"car_model"`
	Year               int                `bson:"year" json:"year"`
	RegistrationNumber string             `bson:"registration_number" json:"registration_number"`
	VIN                string             `bson:"vin" json:"vin"`
	Kms                int                `bson:"kms" json:"kms"` // odometer reading
	EntryDate          time.Time          `bson:"entry_date" json:"entry_date"`
	WorkDescription    string             `bson:"work_description" json:"work_description"`
	EstimatedDelivery  time.Time          `bson:"estimated_delivery" json:"estimated_delivery"`
	AssignedMechanicID string             `bson:"assigned_mechanic_id" json:"assigned_mechanic_id"`
	AssignedMechanic   string             `bson:"assigned_mechanic_name" json:"assigned_mechanic_name"`
	Status             string             `bson:"status" json:"status"`
	Photos             []string           `bson:"photos" json:"photos"` // base64 data URLs
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CompletionDate     *time.Time         `bson:"completion_date,omitempty" json:"completion_date,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}

// JobCreateRequest carries the fields a manager supplies when opening a job.
// Dates arrive as ISO 8601 strings and are parsed once at the API boundary.
type JobCreateRequest struct {
	CustomerName       string `json:"customer_name"`
	ContactNumber      string `json:"contact_number"`
	CarBrand           string `json:"car_brand"`
	CarModel           string `json:"car_model"`
	Year               int    `json:"year"`
	RegistrationNumber string `json:"registration_number"`
	VIN                string `json:"vin"`
	Kms                *int   `json:"kms"`
	EntryDate          string `json:"entry_date"`
	WorkDescription    string `json:"work_description"`
	EstimatedDelivery  string `json:"estimated_delivery"`
	AssignedMechanicID string `json:"assigned_mechanic_id"`
}

// JobUpdateRequest is a partial update; nil fields are left untouched.
type JobUpdateRequest struct {
	CustomerName       *string `json:"customer_name"`
	ContactNumber      *string `json:"contact_number"`
	CarBrand           *string `json:"car_brand"`
	CarModel           *string `json:"car_model"`
	Year               *int    `json:"year"`
	RegistrationNumber *string `json:"registration_number"`
	VIN                *string `json:"vin"`
	Kms                *int    `json:"kms"`
	EntryDate          *string `json:"entry_date"`
	WorkDescription    *string `json:"work_description"`
	EstimatedDelivery  *string `json:"estimated_delivery"`
	AssignedMechanicID *string `json:"assigned_mechanic_id"`
	Status             *string `json:"status"`
	Notes              *string `json:"notes"`
}

// JobNote is a timestamped note attached to a job.
type JobNote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID     string             `bson:"job_id" json:"job_id"`
	NoteText  string             `bson:"note_text" json:"note_text"`
	CreatedBy string             `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// JobNoteCreateRequest carries the body of a new note.
type JobNoteCreateRequest struct {
	NoteText string `json:"note_text"`
}

// Stats summarizes job counts for the dashboard.
type Stats struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}
