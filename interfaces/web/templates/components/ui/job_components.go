// Package ui holds the hand-built HTML fragment components the
// dashboard swaps in over HTMX.
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// JobCardView is the view model for a single job card fragment.
type JobCardView struct {
	ID             string
	JobSheetNumber string
	CustomerName   string
	ContactNumber  string
	DeviceType     string
	BrandName      string
	Issues         []string
	AttendedBy     string
	EstimatedCost  string
	FinalCost      string
	Status         string
	StatusClass    string
	CreatedAt      string
}

// JobCard renders one job as a dashboard card.
func JobCard(view JobCardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="job-card" id="job-` + templ.EscapeString(view.ID) + `">`)
		b.WriteString(`<div class="job-card-header">`)
		b.WriteString(`<span class="job-number">` + templ.EscapeString(view.JobSheetNumber) + `</span>`)
		b.WriteString(`<span class="job-status ` + templ.EscapeString(view.StatusClass) + `">` + templ.EscapeString(view.Status) + `</span>`)
		b.WriteString(`</div>`)
		b.WriteString(`<div class="job-card-body">`)
		b.WriteString(`<p class="job-customer">` + templ.EscapeString(view.CustomerName) + ` &middot; ` + templ.EscapeString(view.ContactNumber) + `</p>`)
		b.WriteString(`<p class="job-device">` + templ.EscapeString(view.DeviceType) + ` &middot; ` + templ.EscapeString(view.BrandName) + `</p>`)
		b.WriteString(`<ul class="job-issues">`)
		for _, issue := range view.Issues {
			b.WriteString(`<li>` + templ.EscapeString(issue) + `</li>`)
		}
		b.WriteString(`</ul>`)
		b.WriteString(`<p class="job-meta">Attended by ` + templ.EscapeString(view.AttendedBy) + ` &middot; ` + templ.EscapeString(view.CreatedAt) + `</p>`)
		b.WriteString(`<p class="job-cost">Estimated: ` + templ.EscapeString(view.EstimatedCost))
		if view.FinalCost != "" {
			b.WriteString(` &middot; Final: ` + templ.EscapeString(view.FinalCost))
		}
		b.WriteString(`</p>`)
		b.WriteString(`</div></div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// JobCardList renders the filtered job collection as a card grid.
func JobCardList(views []JobCardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, fmt.Sprintf(`<div class="job-grid" data-count="%d">`, len(views))); err != nil {
			return err
		}
		if len(views) == 0 {
			if _, err := io.WriteString(w, `<p class="job-grid-empty">No jobs found.</p>`); err != nil {
				return err
			}
		}
		for _, view := range views {
			if err := JobCard(view).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// ToastNotification renders a toast fragment pushed over SSE.
func ToastNotification(message, toastType string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<div class="toast toast-`+templ.EscapeString(toastType)+`">`+
				templ.EscapeString(message)+`</div>`)
		return err
	})
}

// WhatsAppPrompt renders the fragment that offers a composed
// notification link for the staff member to open.
func WhatsAppPrompt(jobSheetNumber, customerName, link string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		safeLink := templ.URL(link)
		_, err := io.WriteString(w,
			`<div class="whatsapp-prompt">`+
				`<span>WhatsApp message ready for `+templ.EscapeString(customerName)+
				` (`+templ.EscapeString(jobSheetNumber)+`)</span> `+
				`<a href="`+templ.EscapeString(string(safeLink))+`" target="_blank" rel="noopener">Open WhatsApp</a>`+
				`</div>`)
		return err
	})
}
