package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fixtrack/application"
	"fixtrack/domain/contracts"
	"fixtrack/domain/notify"
	"fixtrack/domain/repair"
	"fixtrack/interfaces/web/presenters"
	"fixtrack/interfaces/web/templates/components/ui"
	"fixtrack/logging"
)

// JobHandlers handles the job sheet HTTP endpoints. Thin orchestration
// layer; the business rules live in the job service.
type JobHandlers struct {
	jobService   application.JobService
	jobPresenter *presenters.JobPresenter
	logger       *logging.Logger
}

// NewJobHandlers creates a new job handlers instance.
func NewJobHandlers(
	jobService application.JobService,
	jobPresenter *presenters.JobPresenter,
) *JobHandlers {
	return &JobHandlers{
		jobService:   jobService,
		jobPresenter: jobPresenter,
		logger:       logging.Default().WithComponent("job_handler"),
	}
}

type jobRequest struct {
	CustomerName  string   `json:"customer_name"`
	ContactNumber string   `json:"contact_number"`
	DeviceType    string   `json:"device_type"`
	BrandName     string   `json:"brand_name"`
	Issues        []string `json:"issues"`
	AttendedBy    string   `json:"attended_by"`
	EstimatedCost float64  `json:"estimated_cost"`
}

func (req jobRequest) toIntake() repair.Intake {
	return repair.Intake{
		CustomerName:  req.CustomerName,
		ContactNumber: req.ContactNumber,
		DeviceType:    repair.DeviceType(req.DeviceType),
		BrandName:     req.BrandName,
		Issues:        req.Issues,
		AttendedBy:    req.AttendedBy,
		EstimatedCost: req.EstimatedCost,
	}
}

type statusRequest struct {
	Status    string   `json:"status"`
	FinalCost *float64 `json:"final_cost,omitempty"`
}

// CreateJob registers a new job sheet and returns it with its minted
// sheet number.
func (h *JobHandlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.jobService.CreateJob(r.Context(), req.toIntake())
	if err != nil {
		if errors.Is(err, repair.ErrInvalidJob) {
			WriteJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error("Failed to create job", "error", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	WriteJSON(w, http.StatusCreated, h.jobPresenter.FormatJob(job))
}

// ListJobs returns the filtered job sheets as JSON, or as a card grid
// fragment for HTMX requests.
func (h *JobHandlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobs, err := h.jobService.ListJobs(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list jobs", "error", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if IsHTMXRequest(r) || r.Header.Get("Accept") == "text/html" {
		RenderResponse(r.Context(), w, r, ui.JobCardList(h.jobPresenter.ToJobCardViews(jobs)))
		return
	}

	WriteJSON(w, http.StatusOK, h.jobPresenter.FormatJobList(jobs))
}

// GetJob returns one job sheet by id.
func (h *JobHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := h.jobService.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			WriteJSONError(w, http.StatusNotFound, "job not found")
			return
		}
		h.logger.Error("Failed to get job", "job_id", jobID, "error", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, h.jobPresenter.FormatJob(job))
}

// UpdateJob replaces the editable intake fields of a job sheet.
func (h *JobHandlers) UpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.jobService.UpdateJob(r.Context(), jobID, req.toIntake())
	if err != nil {
		switch {
		case errors.Is(err, contracts.ErrNotFound):
			WriteJSONError(w, http.StatusNotFound, "job not found")
		case errors.Is(err, repair.ErrInvalidJob):
			WriteJSONError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("Failed to update job", "job_id", jobID, "error", err)
			WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	WriteJSON(w, http.StatusOK, h.jobPresenter.FormatJob(job))
}

// UpdateStatus moves a job sheet through its lifecycle.
func (h *JobHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.jobService.UpdateStatus(r.Context(), jobID, repair.Status(req.Status), req.FinalCost)
	if err != nil {
		switch {
		case errors.Is(err, contracts.ErrNotFound):
			WriteJSONError(w, http.StatusNotFound, "job not found")
		case errors.Is(err, repair.ErrTransitionNotAllowed):
			WriteJSONError(w, http.StatusConflict, err.Error())
		case errors.Is(err, repair.ErrInvalidJob):
			WriteJSONError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("Failed to update job status",
				"job_id", jobID,
				"status", req.Status,
				"error", err)
			WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	WriteJSON(w, http.StatusOK, h.jobPresenter.FormatJob(job))
}

// NotificationLink re-composes the WhatsApp deep link for a job so
// staff can resend a message manually.
func (h *JobHandlers) NotificationLink(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	event := notify.Event(r.URL.Query().Get("event"))
	if event == "" {
		event = notify.EventCreated
	}

	link, err := h.jobService.NotificationLink(r.Context(), jobID, event)
	if err != nil {
		switch {
		case errors.Is(err, contracts.ErrNotFound):
			WriteJSONError(w, http.StatusNotFound, "job not found")
		case errors.Is(err, notify.ErrInvalidPhone):
			WriteJSONError(w, http.StatusUnprocessableEntity, "contact number is not a valid phone number")
		case errors.Is(err, notify.ErrUnknownEvent):
			WriteJSONError(w, http.StatusBadRequest, "unknown notification event")
		default:
			h.logger.Error("Failed to compose notification link", "job_id", jobID, "error", err)
			WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"link": link})
}

// filterFromQuery builds the list filter from query parameters.
func filterFromQuery(r *http.Request) (repair.Filter, error) {
	query := r.URL.Query()
	filter := repair.Filter{
		Status:     repair.Status(query.Get("status")),
		AttendedBy: query.Get("attended_by"),
		SearchTerm: query.Get("q"),
	}

	fromRaw, toRaw := query.Get("from"), query.Get("to")
	if fromRaw != "" || toRaw != "" {
		if fromRaw == "" || toRaw == "" {
			return repair.Filter{}, errors.New("both from and to are required for a date range")
		}
		from, err := time.Parse("2006-01-02", fromRaw)
		if err != nil {
			return repair.Filter{}, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		to, err := time.Parse("2006-01-02", toRaw)
		if err != nil {
			return repair.Filter{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		// The range is inclusive of the whole end day.
		filter.DateRange = &repair.DateRange{
			Start: from,
			End:   to.Add(24*time.Hour - time.Nanosecond),
		}
	}

	return filter, nil
}
