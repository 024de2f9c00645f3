package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/icdtuning/workshop-backend/internal/gateway"
	"github.com/icdtuning/workshop-backend/internal/middleware"
	"github.com/icdtuning/workshop-backend/internal/models"
)

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockJobCollection is a mock implementation of db.JobCollection
type MockJobCollection struct {
	mock.Mock
}

func (m *MockJobCollection) InsertJob(ctx context.Context, job models.Job) (string, error) {
	args := m.Called(ctx, job)
	return args.String(0), args.Error(1)
}

func (m *MockJobCollection) FindJobByID(ctx context.Context, id string) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobCollection) FindJobs(ctx context.Context, filter bson.M) ([]models.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockJobCollection) UpdateJob(ctx context.Context, id string, fields bson.M) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockJobCollection) PushPhoto(ctx context.Context, id string, photoURL string) error {
	args := m.Called(ctx, id, photoURL)
	return args.Error(0)
}

// MockInvoiceCollection is a mock implementation of db.InvoiceCollection
type MockInvoiceCollection struct {
	mock.Mock
}

func (m *MockInvoiceCollection) InsertInvoice(ctx context.Context, invoice models.Invoice) (string, error) {
	args := m.Called(ctx, invoice)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceCollection) FindInvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceCollection) FindInvoicesByJob(ctx context.Context, jobID string) ([]models.Invoice, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invoice), args.Error(1)
}

func (m *MockInvoiceCollection) CountInvoices(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceCollection) SetDispatchFlag(ctx context.Context, id string, field string) error {
	args := m.Called(ctx, id, field)
	return args.Error(0)
}

// MockNoteCollection is a mock implementation of db.NoteCollection
type MockNoteCollection struct {
	mock.Mock
}

func (m *MockNoteCollection) InsertNote(ctx context.Context, note models.JobNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteCollection) FindNotesByJob(ctx context.Context, jobID string) ([]models.JobNote, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JobNote), args.Error(1)
}

// MockGateway is a mock implementation of gateway.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Notify(ctx context.Context, channel, recipient, message string) gateway.Result {
	args := m.Called(ctx, channel, recipient, message)
	return args.Get(0).(gateway.Result)
}

func (m *MockGateway) DeliverDocument(ctx context.Context, channel, recipient, subject, body string, attachment []byte) gateway.Result {
	args := m.Called(ctx, channel, recipient, subject, body, attachment)
	return args.Get(0).(gateway.Result)
}

func (m *MockGateway) BulkExport(ctx context.Context, jobs []models.Job) gateway.ExportResult {
	args := m.Called(ctx, jobs)
	return args.Get(0).(gateway.ExportResult)
}

// requestWithClaims builds a request carrying authenticated user claims, the
// way the auth middleware would.
func requestWithClaims(r *http.Request, claims *models.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserContextKey, claims)
	return r.WithContext(ctx)
}

// serveMux routes a single request through a method-pattern mux so that
// r.PathValue is populated as in production.
func serveMux(pattern string, handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}
