package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fixtrack/application"
	"fixtrack/domain/contracts"
	"fixtrack/domain/notify"
	"fixtrack/domain/repair"
	"fixtrack/interfaces/web/presenters"
)

// Mock implementations for testing
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) CreateJob(ctx context.Context, intake repair.Intake) (*repair.Job, error) {
	args := m.Called(ctx, intake)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repair.Job), args.Error(1)
}

func (m *MockJobService) GetJob(ctx context.Context, id string) (*repair.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repair.Job), args.Error(1)
}

func (m *MockJobService) ListJobs(ctx context.Context, filter repair.Filter) ([]*repair.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repair.Job), args.Error(1)
}

func (m *MockJobService) UpdateJob(ctx context.Context, id string, intake repair.Intake) (*repair.Job, error) {
	args := m.Called(ctx, id, intake)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repair.Job), args.Error(1)
}

func (m *MockJobService) UpdateStatus(ctx context.Context, id string, status repair.Status, finalCost *float64) (*repair.Job, error) {
	args := m.Called(ctx, id, status, finalCost)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repair.Job), args.Error(1)
}

func (m *MockJobService) Dashboard(ctx context.Context) (*application.DashboardData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.DashboardData), args.Error(1)
}

func (m *MockJobService) NotificationLink(ctx context.Context, id string, event notify.Event) (string, error) {
	args := m.Called(ctx, id, event)
	return args.String(0), args.Error(1)
}

func handlerTestJob() *repair.Job {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &repair.Job{
		ID:             "job-1",
		JobSheetNumber: "FTT-00001",
		CustomerName:   "Anita Sharma",
		ContactNumber:  "9876543210",
		DeviceType:     repair.DeviceLaptop,
		BrandName:      "Dell",
		Issues:         []string{"Screen flicker"},
		AttendedBy:     "Ravi",
		EstimatedCost:  1500,
		Status:         repair.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func newJobHandlers(service *MockJobService) *JobHandlers {
	return NewJobHandlers(service, presenters.NewJobPresenter())
}

// withURLParam injects a chi route parameter into the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestJobHandlers_CreateJob(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		service.On("CreateJob", mock.Anything, mock.AnythingOfType("repair.Intake")).
			Return(handlerTestJob(), nil)

		body := `{
			"customer_name": "Anita Sharma",
			"contact_number": "9876543210",
			"device_type": "Laptop",
			"brand_name": "Dell",
			"issues": ["Screen flicker"],
			"attended_by": "Ravi",
			"estimated_cost": 1500
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		handlers.CreateJob(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var view presenters.JobView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, "FTT-00001", view.JobSheetNumber)
		assert.Equal(t, "Pending", view.Status)
	})

	t.Run("malformed body", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString("{broken"))
		rec := httptest.NewRecorder()

		handlers.CreateJob(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "CreateJob", mock.Anything, mock.Anything)
	})

	t.Run("domain validation failure", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		service.On("CreateJob", mock.Anything, mock.AnythingOfType("repair.Intake")).
			Return(nil, fmt.Errorf("%w: at least one issue is required", repair.ErrInvalidJob))

		req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString(`{"customer_name": "x"}`))
		rec := httptest.NewRecorder()

		handlers.CreateJob(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestJobHandlers_ListJobs(t *testing.T) {
	t.Run("json response with filter from query", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		expectedFilter := repair.Filter{Status: repair.StatusPending, AttendedBy: "Ravi"}
		service.On("ListJobs", mock.Anything, expectedFilter).
			Return([]*repair.Job{handlerTestJob()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/jobs?status=Pending&attended_by=Ravi", nil)
		rec := httptest.NewRecorder()

		handlers.ListJobs(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var view presenters.JobListView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, 1, view.Total)
		assert.Equal(t, "FTT-00001", view.Jobs[0].JobSheetNumber)
	})

	t.Run("htmx request renders cards", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		service.On("ListJobs", mock.Anything, repair.Filter{}).
			Return([]*repair.Job{handlerTestJob()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()

		handlers.ListJobs(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "FTT-00001")
		assert.Contains(t, rec.Body.String(), "job-card")
	})

	t.Run("incomplete date range rejected", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		req := httptest.NewRequest(http.MethodGet, "/api/jobs?from=2025-06-01", nil)
		rec := httptest.NewRecorder()

		handlers.ListJobs(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "ListJobs", mock.Anything, mock.Anything)
	})

	t.Run("date range covers whole end day", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		var captured repair.Filter
		service.On("ListJobs", mock.Anything, mock.AnythingOfType("repair.Filter")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(repair.Filter)
			}).
			Return([]*repair.Job{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/jobs?from=2025-06-01&to=2025-06-02", nil)
		rec := httptest.NewRecorder()

		handlers.ListJobs(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured.DateRange)
		endOfDay := time.Date(2025, 6, 2, 23, 59, 59, 999999999, time.UTC)
		assert.Equal(t, endOfDay, captured.DateRange.End)
	})
}

func TestJobHandlers_GetJob(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		service.On("GetJob", mock.Anything, "job-1").Return(handlerTestJob(), nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil), "jobID", "job-1")
		rec := httptest.NewRecorder()

		handlers.GetJob(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		service.On("GetJob", mock.Anything, "nope").Return(nil, contracts.ErrNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil), "jobID", "nope")
		rec := httptest.NewRecorder()

		handlers.GetJob(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestJobHandlers_UpdateStatus(t *testing.T) {
	t.Run("completion with final cost", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		completedJob := handlerTestJob()
		completedJob.Status = repair.StatusCompleted
		cost := 1800.0
		completedJob.FinalCost = &cost

		service.On("UpdateStatus", mock.Anything, "job-1", repair.StatusCompleted, mock.AnythingOfType("*float64")).
			Return(completedJob, nil)

		body := `{"status": "Completed", "final_cost": 1800}`
		req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/jobs/job-1/status", bytes.NewBufferString(body)), "jobID", "job-1")
		rec := httptest.NewRecorder()

		handlers.UpdateStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var view presenters.JobView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, "Completed", view.Status)
		require.NotNil(t, view.FinalCost)
		assert.Equal(t, 1800.0, *view.FinalCost)
	})

	t.Run("transition rejected maps to conflict", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		service.On("UpdateStatus", mock.Anything, "job-1", repair.StatusDelivered, (*float64)(nil)).
			Return(nil, fmt.Errorf("%w: Pending -> Delivered", repair.ErrTransitionNotAllowed))

		body := `{"status": "Delivered"}`
		req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/jobs/job-1/status", bytes.NewBufferString(body)), "jobID", "job-1")
		rec := httptest.NewRecorder()

		handlers.UpdateStatus(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestJobHandlers_NotificationLink(t *testing.T) {
	t.Run("defaults to created event", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		service.On("NotificationLink", mock.Anything, "job-1", notify.EventCreated).
			Return("https://wa.me/919876543210?text=hi", nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/jobs/job-1/notification", nil), "jobID", "job-1")
		rec := httptest.NewRecorder()

		handlers.NotificationLink(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "https://wa.me/919876543210?text=hi", payload["link"])
	})

	t.Run("invalid phone", func(t *testing.T) {
		service := &MockJobService{}
		handlers := newJobHandlers(service)

		service.On("NotificationLink", mock.Anything, "job-1", notify.EventCompleted).
			Return("", fmt.Errorf("%w: %q has 5 digits", notify.ErrInvalidPhone, "12345"))

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/jobs/job-1/notification?event=completed", nil), "jobID", "job-1")
		rec := httptest.NewRecorder()

		handlers.NotificationLink(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
