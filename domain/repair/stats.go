package repair

import "sort"

// Summary holds per-status job counts for the dashboard.
type Summary struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
	Delivered  int
}

// Summarize computes per-status counts over the collection.
func Summarize(jobs []*Job) Summary {
	summary := Summary{Total: len(jobs)}
	for _, job := range jobs {
		switch job.Status {
		case StatusPending:
			summary.Pending++
		case StatusInProgress:
			summary.InProgress++
		case StatusCompleted:
			summary.Completed++
		case StatusDelivered:
			summary.Delivered++
		}
	}
	return summary
}

// Engineers returns the distinct attending engineer names across the
// collection, sorted, for the dashboard filter dropdown.
func Engineers(jobs []*Job) []string {
	seen := make(map[string]bool, len(jobs))
	names := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if job.AttendedBy == "" || seen[job.AttendedBy] {
			continue
		}
		seen[job.AttendedBy] = true
		names = append(names, job.AttendedBy)
	}
	sort.Strings(names)
	return names
}
