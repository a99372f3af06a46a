package application

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fixtrack/domain/contracts"
	"fixtrack/domain/repair"
)

// csvHeader lists every job field, matching the record shape.
var csvHeader = []string{
	"id", "job_sheet_number", "customer_name", "contact_number",
	"device_type", "brand_name", "issues", "attended_by",
	"estimated_cost", "final_cost", "status",
	"created_at", "updated_at", "completed_at",
}

// ExportService serializes the job collection to CSV for download.
type ExportService struct {
	jobRepo contracts.JobRepository
}

// NewExportService creates a new export service.
func NewExportService(jobRepo contracts.JobRepository) *ExportService {
	return &ExportService{jobRepo: jobRepo}
}

// WriteCSV streams the full job collection as CSV with a header row.
// Quoting is whatever encoding/csv emits; no further escaping.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer) error {
	jobs, err := s.jobRepo.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, job := range jobs {
		if err := cw.Write(csvRecord(job)); err != nil {
			return fmt.Errorf("write csv row %s: %w", job.JobSheetNumber, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvRecord(job *repair.Job) []string {
	finalCost := ""
	if job.FinalCost != nil {
		finalCost = strconv.FormatFloat(*job.FinalCost, 'f', -1, 64)
	}

	completedAt := ""
	if job.CompletedAt != nil {
		completedAt = job.CompletedAt.Format(time.RFC3339)
	}

	return []string{
		job.ID,
		job.JobSheetNumber,
		job.CustomerName,
		job.ContactNumber,
		string(job.DeviceType),
		job.BrandName,
		strings.Join(job.Issues, ", "),
		job.AttendedBy,
		strconv.FormatFloat(job.EstimatedCost, 'f', -1, 64),
		finalCost,
		string(job.Status),
		job.CreatedAt.Format(time.RFC3339),
		job.UpdatedAt.Format(time.RFC3339),
		completedAt,
	}
}
