package handlers

import (
	"fmt"
	"net/http"
	"time"

	"fixtrack/application"
	"fixtrack/interfaces/web/presenters"
	"fixtrack/logging"
)

// DashboardHandlers serves the summary counts, the engineer dropdown
// data and the CSV export.
type DashboardHandlers struct {
	jobService    application.JobService
	exportService *application.ExportService
	jobPresenter  *presenters.JobPresenter
	logger        *logging.Logger
}

// NewDashboardHandlers creates a new dashboard handlers instance.
func NewDashboardHandlers(
	jobService application.JobService,
	exportService *application.ExportService,
	jobPresenter *presenters.JobPresenter,
) *DashboardHandlers {
	return &DashboardHandlers{
		jobService:    jobService,
		exportService: exportService,
		jobPresenter:  jobPresenter,
		logger:        logging.Default().WithComponent("dashboard_handler"),
	}
}

// GetDashboard returns the status counts and the distinct engineers.
func (h *DashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.jobService.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard", "error", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, &presenters.DashboardView{
		Summary:   h.jobPresenter.FormatSummary(data.Summary),
		Engineers: data.Engineers,
	})
}

// ExportCSV streams every job sheet as a CSV download.
func (h *DashboardHandlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("job-sheets-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.exportService.WriteCSV(r.Context(), w); err != nil {
		h.logger.Error("Failed to export jobs as CSV", "error", err)
	}
}
