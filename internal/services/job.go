package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/icdtuning/workshop-backend/internal/db"
	"github.com/icdtuning/workshop-backend/internal/models"
)

// JobService creates and mutates service jobs.
type JobService struct {
	jobs  db.JobCollection
	users db.UserCollection
}

// NewJobService creates a new job service.
func NewJobService(jobs db.JobCollection, users db.UserCollection) *JobService {
	return &JobService{jobs: jobs, users: users}
}

// Create validates the mandatory vehicle fields, denormalizes the assigned
// mechanic's name and persists the job. Managers only.
func (s *JobService) Create(ctx context.Context, actorRole models.Role, req models.JobCreateRequest) (*models.Job, error) {
	if actorRole != models.RoleManager {
		return nil, fmt.Errorf("%w: only managers can create jobs", ErrPermission)
	}

	if strings.TrimSpace(req.VIN) == "" {
		return nil, fmt.Errorf("%w: VIN is mandatory and cannot be empty", ErrValidation)
	}
	if req.Kms == nil || *req.Kms < 0 {
		return nil, fmt.Errorf("%w: odometer reading (KMs) is mandatory and must not be negative", ErrValidation)
	}

	mechanic, err := s.users.FindUserByID(ctx, req.AssignedMechanicID)
	if err != nil {
		return nil, fmt.Errorf("mechanic %s: %w", req.AssignedMechanicID, err)
	}

	entryDate, err := ParseISODate(req.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid entry_date", ErrValidation)
	}
	estimatedDelivery, err := ParseISODate(req.EstimatedDelivery)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid estimated_delivery", ErrValidation)
	}

	job := models.Job{
		CustomerName:       req.CustomerName,
		ContactNumber:      req.ContactNumber,
		CarBrand:           req.CarBrand,
		CarModel:           req.CarModel,
		Year:               req.Year,
		RegistrationNumber: req.RegistrationNumber,
		VIN:                req.VIN,
		Kms:                *req.Kms,
		EntryDate:          entryDate,
		WorkDescription:    req.WorkDescription,
		EstimatedDelivery:  estimatedDelivery,
		AssignedMechanicID: req.AssignedMechanicID,
		AssignedMechanic:   mechanic.FullName,
		Status:             models.StatusCarReceived,
		Photos:             []string{},
	}

	id, err := s.jobs.InsertJob(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	return s.jobs.FindJobByID(ctx, id)
}

// Update applies a partial update to a job on behalf of an actor. Mechanics
// may only touch jobs assigned to them and may not reassign them. The
// completion date is recorded on the first transition to "Work complete" and
// is never overwritten or cleared by later status changes.
func (s *JobService) Update(ctx context.Context, actor *models.Claims, jobID string, req models.JobUpdateRequest) (*models.Job, error) {
	job, err := s.jobs.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleMechanic && job.AssignedMechanicID != actor.UserID {
		return nil, fmt.Errorf("%w: job is not assigned to you", ErrPermission)
	}

	fields, err := s.buildUpdate(ctx, actor.Role, job, req)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := s.jobs.UpdateJob(ctx, jobID, fields); err != nil {
			return nil, err
		}
	}

	return s.jobs.FindJobByID(ctx, jobID)
}

func (s *JobService) buildUpdate(ctx context.Context, actorRole models.Role, job *models.Job, req models.JobUpdateRequest) (bson.M, error) {
	fields := bson.M{}

	if req.CustomerName != nil {
		fields["customer_name"] = *req.CustomerName
	}
	if req.ContactNumber != nil {
		fields["contact_number"] = *req.ContactNumber
	}
	if req.CarBrand != nil {
		fields["car_brand"] = *req.CarBrand
	}
	if req.CarModel != nil {
		fields["car_model"] = *req.CarModel
	}
	if req.Year != nil {
		fields["year"] = *req.Year
	}
	if req.RegistrationNumber != nil {
		fields["registration_number"] = *req.RegistrationNumber
	}
	if req.VIN != nil {
		if strings.TrimSpace(*req.VIN) == "" {
			return nil, fmt.Errorf("%w: VIN cannot be empty", ErrValidation)
		}
		fields["vin"] = *req.VIN
	}
	if req.Kms != nil {
		if *req.Kms < 0 {
			return nil, fmt.Errorf("%w: odometer reading must not be negative", ErrValidation)
		}
		fields["kms"] = *req.Kms
	}
	if req.WorkDescription != nil {
		fields["work_description"] = *req.WorkDescription
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if req.EntryDate != nil {
		parsed, err := ParseISODate(*req.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid entry_date", ErrValidation)
		}
		fields["entry_date"] = parsed
	}
	if req.EstimatedDelivery != nil {
		parsed, err := ParseISODate(*req.EstimatedDelivery)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid estimated_delivery", ErrValidation)
		}
		fields["estimated_delivery"] = parsed
	}

	// Reassignment is a manager-only change; a mechanic's patch simply
	// drops the field.
	if req.AssignedMechanicID != nil && actorRole == models.RoleManager {
		mechanic, err := s.users.FindUserByID(ctx, *req.AssignedMechanicID)
		if err != nil {
			return nil, fmt.Errorf("mechanic %s: %w", *req.AssignedMechanicID, err)
		}
		fields["assigned_mechanic_id"] = *req.AssignedMechanicID
		fields["assigned_mechanic_name"] = mechanic.FullName
	}

	if req.Status != nil {
		fields["status"] = *req.Status
		if *req.Status == models.StatusWorkComplete && job.CompletionDate == nil {
			fields["completion_date"] = time.Now().UTC()
		}
	}

	return fields, nil
}

// Stats summarizes the jobs visible to the actor for the dashboard.
func (s *JobService) Stats(ctx context.Context, actor *models.Claims) (*models.Stats, error) {
	filter := bson.M{}
	if actor.Role == models.RoleMechanic {
		filter["assigned_mechanic_id"] = actor.UserID
	}

	jobs, err := s.jobs.FindJobs(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{Total: len(jobs)}
	for _, j := range jobs {
		switch j.Status {
		case "Pending", "In Progress":
			stats.Active++
		case "Done", "Delivered":
			stats.Completed++
		}
	}
	return stats, nil
}
