// Package notify composes customer-facing WhatsApp messages and deep
// links for job lifecycle events. Composition is pure; opening a link
// is left to the browser.
package notify

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"text/template"

	"fixtrack/domain/repair"
)

// Event tags the lifecycle moment a notification describes.
type Event string

const (
	EventCreated   Event = "created"
	EventCompleted Event = "completed"
	EventDelivered Event = "delivered"
)

// ErrInvalidPhone marks a contact number the composer refuses to build
// a link for. Callers must surface this to the user instead of
// dropping the notification silently.
var ErrInvalidPhone = errors.New("invalid contact number")

// ErrUnknownEvent marks an event tag with no message template.
var ErrUnknownEvent = errors.New("unknown notification event")

// Default message templates, matching the shop's intake sheet wording.
const (
	defaultCreatedTemplate   = "Dear {{.CustomerName}}, your {{.DeviceType}} has been received at {{.ShopName}}. Your Job Sheet No. is {{.JobSheetNumber}}. The estimated repair cost is {{.Currency}}{{.EstimatedCost}}. We'll contact you once the repair is complete."
	defaultCompletedTemplate = "Dear {{.CustomerName}}, your {{.DeviceType}} repair is complete. The final cost is {{.Currency}}{{.FinalCost}}. Thank you for your patience! Now you can collect your product"
	defaultDeliveredTemplate = "Dear {{.CustomerName}}, your {{.DeviceType}} has been successfully delivered. Thank you for choosing {{.ShopName}}!"
)

// Config holds composer settings. Zero values fall back to the shop
// defaults.
type Config struct {
	Host               string // messaging endpoint host, default "wa.me"
	DefaultCountryCode string // prepended to 10-digit local numbers, default "91"
	Currency           string // currency symbol in messages, default "₹"
	ShopName           string // shop name interpolated into messages
	Templates          map[Event]string
}

// Composer builds notification messages and links from jobs.
type Composer struct {
	host               string
	defaultCountryCode string
	currency           string
	shopName           string
	templates          map[Event]*template.Template
}

// messageData is the template context for a notification message.
type messageData struct {
	CustomerName   string
	DeviceType     string
	JobSheetNumber string
	EstimatedCost  string
	FinalCost      string
	Currency       string
	ShopName       string
}

// NewComposer creates a composer, parsing any template overrides.
func NewComposer(cfg Config) (*Composer, error) {
	c := &Composer{
		host:               cfg.Host,
		defaultCountryCode: cfg.DefaultCountryCode,
		currency:           cfg.Currency,
		shopName:           cfg.ShopName,
		templates:          make(map[Event]*template.Template, 3),
	}
	if c.host == "" {
		c.host = "wa.me"
	}
	if c.defaultCountryCode == "" {
		c.defaultCountryCode = "91"
	}
	if c.currency == "" {
		c.currency = "₹"
	}
	if c.shopName == "" {
		c.shopName = "FTT Repairing Center"
	}

	sources := map[Event]string{
		EventCreated:   defaultCreatedTemplate,
		EventCompleted: defaultCompletedTemplate,
		EventDelivered: defaultDeliveredTemplate,
	}
	for event, override := range cfg.Templates {
		if _, ok := sources[event]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
		}
		if override != "" {
			sources[event] = override
		}
	}

	for event, source := range sources {
		tmpl, err := template.New(string(event)).Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", event, err)
		}
		c.templates[event] = tmpl
	}

	return c, nil
}

// Message renders the notification text for the given job and event.
func (c *Composer) Message(job *repair.Job, event Event) (string, error) {
	tmpl, ok := c.templates[event]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	finalCost := 0.0
	if job.FinalCost != nil {
		finalCost = *job.FinalCost
	}

	data := messageData{
		CustomerName:   job.CustomerName,
		DeviceType:     string(job.DeviceType),
		JobSheetNumber: job.JobSheetNumber,
		EstimatedCost:  formatCost(job.EstimatedCost),
		FinalCost:      formatCost(finalCost),
		Currency:       c.currency,
		ShopName:       c.shopName,
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s message: %w", event, err)
	}
	return b.String(), nil
}

// NormalizePhone reduces a raw contact number to digits and resolves
// the country code: 11 or more digits are assumed to carry one already,
// exactly 10 digits get the default code prepended, anything else is
// invalid.
func (c *Composer) NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	switch n := digits.Len(); {
	case n >= 11:
		return digits.String(), nil
	case n == 10:
		return c.defaultCountryCode + digits.String(), nil
	default:
		return "", fmt.Errorf("%w: %q has %d digits", ErrInvalidPhone, raw, n)
	}
}

// Link composes the full deep link for the job and event:
// https://<host>/<countrycode+number>?text=<encoded message>.
func (c *Composer) Link(job *repair.Job, event Event) (string, error) {
	phone, err := c.NormalizePhone(job.ContactNumber)
	if err != nil {
		return "", err
	}

	message, err := c.Message(job, event)
	if err != nil {
		return "", err
	}

	u := url.URL{
		Scheme:   "https",
		Host:     c.host,
		Path:     "/" + phone,
		RawQuery: "text=" + url.QueryEscape(message),
	}
	return u.String(), nil
}

// EventForStatus maps a lifecycle status to its notification event, if
// any. Only Completed and Delivered trigger status notifications.
func EventForStatus(status repair.Status) (Event, bool) {
	switch status {
	case repair.StatusCompleted:
		return EventCompleted, true
	case repair.StatusDelivered:
		return EventDelivered, true
	}
	return "", false
}

// formatCost renders a cost the way the intake sheet shows it: no
// trailing zeros, no grouping.
func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
