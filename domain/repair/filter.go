package repair

import (
	"strings"
	"time"
)

// DateRange is an inclusive [Start, End] window over creation time.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Filter describes optional job list criteria. Zero-valued fields mean
// "no constraint"; provided criteria combine with logical AND.
type Filter struct {
	Status     Status
	AttendedBy string
	SearchTerm string
	DateRange  *DateRange
}

// IsEmpty reports whether no criterion is set.
func (f Filter) IsEmpty() bool {
	return f.Status == "" && f.AttendedBy == "" && f.SearchTerm == "" && f.DateRange == nil
}

// Matches reports whether the job satisfies every provided criterion.
func (f Filter) Matches(job *Job) bool {
	if f.Status != "" && job.Status != f.Status {
		return false
	}
	if f.AttendedBy != "" && job.AttendedBy != f.AttendedBy {
		return false
	}

	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		matches := strings.Contains(strings.ToLower(job.CustomerName), term) ||
			strings.Contains(strings.ToLower(job.JobSheetNumber), term) ||
			strings.Contains(strings.ToLower(job.BrandName), term)
		// Contact numbers match on digit containment so "98765 43210"
		// and "9876543210" compare equal. A term with no digits never
		// matches on this field.
		if !matches {
			if termDigits := digitsOnly(f.SearchTerm); termDigits != "" {
				matches = strings.Contains(digitsOnly(job.ContactNumber), termDigits)
			}
		}
		if !matches {
			return false
		}
	}

	if f.DateRange != nil {
		if job.CreatedAt.Before(f.DateRange.Start) || job.CreatedAt.After(f.DateRange.End) {
			return false
		}
	}

	return true
}

// Apply returns the subsequence of jobs satisfying the filter,
// preserving input order.
func (f Filter) Apply(jobs []*Job) []*Job {
	if f.IsEmpty() {
		return jobs
	}

	filtered := make([]*Job, 0, len(jobs))
	for _, job := range jobs {
		if f.Matches(job) {
			filtered = append(filtered, job)
		}
	}
	return filtered
}

// digitsOnly strips everything but decimal digits from s.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
