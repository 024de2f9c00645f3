package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/icdtuning/workshop-backend/internal/db"
	"github.com/icdtuning/workshop-backend/internal/gateway"
	"github.com/icdtuning/workshop-backend/internal/middleware"
	"github.com/icdtuning/workshop-backend/internal/models"
	"github.com/icdtuning/workshop-backend/internal/services"
)

const maxPhotoUploadBytes = 10 << 20

// JobHandler handles job CRUD, photos, notes and the dashboard stats.
type JobHandler struct {
	jobService *services.JobService
	jobs       db.JobCollection
	notes      db.NoteCollection
	gw         gateway.Gateway
}

// NewJobHandler creates a new job handler.
func NewJobHandler(jobService *services.JobService, jobs db.JobCollection, notes db.NoteCollection, gw gateway.Gateway) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		jobs:       jobs,
		notes:      notes,
		gw:         gw,
	}
}

// Create opens a new job. Managers only.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req models.JobCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	job, err := h.jobService.Create(r.Context(), claims.Role, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// List returns all jobs for a manager, or the mechanic's own jobs.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	filter := bson.M{}
	if claims.Role == models.RoleMechanic {
		filter["assigned_mechanic_id"] = claims.UserID
	}

	jobs, err := h.jobs.FindJobs(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to list jobs", http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	writeJSON(w, http.StatusOK, jobs)
}

// Get returns one job. Mechanics can only read jobs assigned to them.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	job, err := h.jobs.FindJobByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	if claims.Role == models.RoleMechanic && job.AssignedMechanicID != claims.UserID {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// Update applies a partial update to a job.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req models.JobUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	job, err := h.jobService.Update(r.Context(), claims, r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// AddPhoto attaches an uploaded image to a job as a base64 data URL.
func (h *JobHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	jobID := r.PathValue("id")
	job, err := h.jobs.FindJobByID(r.Context(), jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if claims.Role == models.RoleMechanic && job.AssignedMechanicID != claims.UserID {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Photo file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read photo", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	photoURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(imageData))

	if err := h.jobs.PushPhoto(r.Context(), jobID, photoURL); err != nil {
		http.Error(w, "Failed to save photo", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Photo added successfully",
		"photo_url": photoURL,
	})
}

// AddNote attaches a note to a job.
func (h *JobHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	jobID := r.PathValue("id")
	job, err := h.jobs.FindJobByID(r.Context(), jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if claims.Role == models.RoleMechanic && job.AssignedMechanicID != claims.UserID {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}

	var req models.JobNoteCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.NoteText == "" {
		http.Error(w, "note_text is required", http.StatusBadRequest)
		return
	}

	note := models.JobNote{
		JobID:     jobID,
		NoteText:  req.NoteText,
		CreatedBy: claims.UserID,
	}
	if err := h.notes.InsertNote(r.Context(), note); err != nil {
		http.Error(w, "Failed to save note", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Note added successfully"})
}

// ListNotes lists a job's notes.
func (h *JobHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	jobID := r.PathValue("id")
	job, err := h.jobs.FindJobByID(r.Context(), jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if claims.Role == models.RoleMechanic && job.AssignedMechanicID != claims.UserID {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}

	notes, err := h.notes.FindNotesByJob(r.Context(), jobID)
	if err != nil {
		http.Error(w, "Failed to list notes", http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []models.JobNote{}
	}

	writeJSON(w, http.StatusOK, notes)
}

// Stats returns dashboard counters for the actor's visible jobs.
func (h *JobHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	stats, err := h.jobService.Stats(r.Context(), claims)
	if err != nil {
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// SendConfirmation notifies the customer that their car is ready. Managers
// only. Gateway failures are reported in the result, not as HTTP errors.
func (h *JobHandler) SendConfirmation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if claims.Role != models.RoleManager {
		http.Error(w, "Only managers can send confirmations", http.StatusForbidden)
		return
	}

	job, err := h.jobs.FindJobByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	message := fmt.Sprintf("Hi %s, your %s service is completed and ready for delivery. — ICD Tuning, Chennai",
		job.CustomerName, job.CarModel)

	result := h.gw.Notify(r.Context(), "whatsapp", job.ContactNumber, message)
	writeJSON(w, http.StatusOK, result)
}
