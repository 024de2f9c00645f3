package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/icdtuning/workshop-backend/internal/db"
	"github.com/icdtuning/workshop-backend/internal/models"
)

// In-memory collection fakes backing the service tests.

type fakeUsers struct {
	users map[string]models.User // keyed by hex id
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]models.User)}
	for _, u := range users {
		f.users[u.ID.Hex()] = u
	}
	return f
}

func (f *fakeUsers) InsertUser(ctx context.Context, user models.User) error {
	f.users[user.ID.Hex()] = user
	return nil
}

func (f *fakeUsers) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeUsers) FindUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeJobs struct {
	jobs map[string]*models.Job
}

func newFakeJobs(jobs ...*models.Job) *fakeJobs {
	f := &fakeJobs{jobs: make(map[string]*models.Job)}
	for _, j := range jobs {
		if j.ID.IsZero() {
			j.ID = primitive.NewObjectID()
		}
		f.jobs[j.ID.Hex()] = j
	}
	return f
}

func (f *fakeJobs) InsertJob(ctx context.Context, job models.Job) (string, error) {
	if job.ID.IsZero() {
		job.ID = primitive.NewObjectID()
	}
	job.CreatedAt = time.Now()
	f.jobs[job.ID.Hex()] = &job
	return job.ID.Hex(), nil
}

func (f *fakeJobs) FindJobByID(ctx context.Context, id string) (*models.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *j
	return &copied, nil
}

func (f *fakeJobs) FindJobs(ctx context.Context, filter bson.M) ([]models.Job, error) {
	var out []models.Job
	for _, j := range f.jobs {
		if mechID, ok := filter["assigned_mechanic_id"]; ok && j.AssignedMechanicID != mechID {
			continue
		}
		out = append(out, *j)
	}
	return out, nil
}

func (f *fakeJobs) UpdateJob(ctx context.Context, id string, fields bson.M) error {
	j, ok := f.jobs[id]
	if !ok {
		return db.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "customer_name":
			j.CustomerName = value.(string)
		case "contact_number":
			j.ContactNumber = value.(string)
		case "car_brand":
			j.CarBrand = value.(string)
		case "car_model":
			j.CarModel = value.(string)
		case "year":
			j.Year = value.(int)
		case "registration_number":
			j.RegistrationNumber = value.(string)
		case "vin":
			j.VIN = value.(string)
		case "kms":
			j.Kms = value.(int)
		case "work_description":
			j.WorkDescription = value.(string)
		case "notes":
			j.Notes = value.(string)
		case "entry_date":
			j.EntryDate = value.(time.Time)
		case "estimated_delivery":
			j.EstimatedDelivery = value.(time.Time)
		case "assigned_mechanic_id":
			j.AssignedMechanicID = value.(string)
		case "assigned_mechanic_name":
			j.AssignedMechanic = value.(string)
		case "status":
			j.Status = value.(string)
		case "completion_date":
			t := value.(time.Time)
			j.CompletionDate = &t
		}
	}
	return nil
}

func (f *fakeJobs) PushPhoto(ctx context.Context, id string, photoURL string) error {
	j, ok := f.jobs[id]
	if !ok {
		return db.ErrNotFound
	}
	j.Photos = append(j.Photos, photoURL)
	return nil
}

type fakeInvoices struct {
	invoices []models.Invoice
}

func (f *fakeInvoices) InsertInvoice(ctx context.Context, invoice models.Invoice) (string, error) {
	if invoice.ID.IsZero() {
		invoice.ID = primitive.NewObjectID()
	}
	f.invoices = append(f.invoices, invoice)
	return invoice.ID.Hex(), nil
}

func (f *fakeInvoices) FindInvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	for i := range f.invoices {
		if f.invoices[i].ID.Hex() == id {
			return &f.invoices[i], nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeInvoices) FindInvoicesByJob(ctx context.Context, jobID string) ([]models.Invoice, error) {
	var out []models.Invoice
	for _, inv := range f.invoices {
		if inv.JobID == jobID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvoices) CountInvoices(ctx context.Context) (int64, error) {
	return int64(len(f.invoices)), nil
}

func (f *fakeInvoices) SetDispatchFlag(ctx context.Context, id string, field string) error {
	for i := range f.invoices {
		if f.invoices[i].ID.Hex() == id {
			switch field {
			case "sent_to_customer":
				f.invoices[i].SentToCustomer = true
			case "sent_to_accountant":
				f.invoices[i].SentToAccountant = true
			}
			return nil
		}
	}
	return db.ErrNotFound
}
