package presenters

import (
	"strconv"
	"strings"
	"time"

	"fixtrack/domain/repair"
	"fixtrack/interfaces/web/templates/components/ui"
)

// Job-related view data structures

// JobView represents a job sheet for API responses.
type JobView struct {
	ID             string   `json:"id"`
	JobSheetNumber string   `json:"job_sheet_number"`
	CustomerName   string   `json:"customer_name"`
	ContactNumber  string   `json:"contact_number"`
	DeviceType     string   `json:"device_type"`
	BrandName      string   `json:"brand_name"`
	Issues         []string `json:"issues"`
	AttendedBy     string   `json:"attended_by"`
	EstimatedCost  float64  `json:"estimated_cost"`
	FinalCost      *float64 `json:"final_cost,omitempty"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"created_at"`
	CompletedAt    string   `json:"completed_at,omitempty"`
}

// JobListView represents a filtered collection of jobs.
type JobListView struct {
	Jobs  []*JobView `json:"jobs"`
	Total int        `json:"total"`
}

// SummaryView represents the dashboard status counts.
type SummaryView struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Delivered  int `json:"delivered"`
}

// DashboardView bundles the summary with the engineer dropdown options.
type DashboardView struct {
	Summary   *SummaryView `json:"summary"`
	Engineers []string     `json:"engineers"`
}

// JobPresenter transforms repair domain data into UI-ready view models.
type JobPresenter struct{}

// NewJobPresenter creates a new job presenter.
func NewJobPresenter() *JobPresenter {
	return &JobPresenter{}
}

// FormatJob converts a job to its API view model.
func (p *JobPresenter) FormatJob(job *repair.Job) *JobView {
	if job == nil {
		return nil
	}

	view := &JobView{
		ID:             job.ID,
		JobSheetNumber: job.JobSheetNumber,
		CustomerName:   job.CustomerName,
		ContactNumber:  job.ContactNumber,
		DeviceType:     string(job.DeviceType),
		BrandName:      job.BrandName,
		Issues:         job.Issues,
		AttendedBy:     job.AttendedBy,
		EstimatedCost:  job.EstimatedCost,
		FinalCost:      job.FinalCost,
		Status:         string(job.Status),
		CreatedAt:      job.CreatedAt.Format(time.RFC3339),
	}
	if job.CompletedAt != nil {
		view.CompletedAt = job.CompletedAt.Format(time.RFC3339)
	}
	return view
}

// FormatJobList converts a filtered slice of jobs to the list view model.
func (p *JobPresenter) FormatJobList(jobs []*repair.Job) *JobListView {
	views := make([]*JobView, 0, len(jobs))
	for _, job := range jobs {
		if view := p.FormatJob(job); view != nil {
			views = append(views, view)
		}
	}
	return &JobListView{Jobs: views, Total: len(views)}
}

// FormatSummary converts status counts to the summary view model.
func (p *JobPresenter) FormatSummary(summary repair.Summary) *SummaryView {
	return &SummaryView{
		Total:      summary.Total,
		Pending:    summary.Pending,
		InProgress: summary.InProgress,
		Completed:  summary.Completed,
		Delivered:  summary.Delivered,
	}
}

// ToJobCardView converts a job to the view model the card fragment renders.
func (p *JobPresenter) ToJobCardView(job *repair.Job) ui.JobCardView {
	view := ui.JobCardView{
		ID:             job.ID,
		JobSheetNumber: job.JobSheetNumber,
		CustomerName:   job.CustomerName,
		ContactNumber:  job.ContactNumber,
		DeviceType:     string(job.DeviceType),
		BrandName:      job.BrandName,
		Issues:         job.Issues,
		AttendedBy:     job.AttendedBy,
		EstimatedCost:  formatCost(job.EstimatedCost),
		Status:         string(job.Status),
		StatusClass:    statusClass(job.Status),
		CreatedAt:      job.CreatedAt.Format("02 Jan 2006 15:04"),
	}
	if job.FinalCost != nil {
		view.FinalCost = formatCost(*job.FinalCost)
	}
	return view
}

// ToJobCardViews converts a slice of jobs for the card grid fragment.
func (p *JobPresenter) ToJobCardViews(jobs []*repair.Job) []ui.JobCardView {
	views := make([]ui.JobCardView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, p.ToJobCardView(job))
	}
	return views
}

func formatCost(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', -1, 64)
}

func statusClass(status repair.Status) string {
	return "status-" + strings.ReplaceAll(strings.ToLower(string(status)), " ", "-")
}
