package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fixtrack/domain/notify"
	"fixtrack/domain/repair"
)

// Policy holds per-shop workflow policy loaded from a YAML file:
// notification wording and the legal status transition set. With no
// file configured everything falls back to defaults, which preserve
// the historical behavior (any transition allowed, stock templates).
type Policy struct {
	Notifications NotificationPolicy `yaml:"notifications"`
	Transitions   TransitionSpec     `yaml:"transitions"`
}

// NotificationPolicy configures message wording.
type NotificationPolicy struct {
	ShopName  string            `yaml:"shop_name"`
	Currency  string            `yaml:"currency"`
	Templates map[string]string `yaml:"templates"`
}

// TransitionSpec configures the status transition policy. When
// Restrict is false the allowed map is ignored and any transition
// between valid statuses is permitted.
type TransitionSpec struct {
	Restrict bool                `yaml:"restrict"`
	Allowed  map[string][]string `yaml:"allowed"`
}

// DefaultPolicy returns the policy used when no file is configured.
func DefaultPolicy() *Policy {
	return &Policy{}
}

// LoadPolicy reads and parses the policy file at path.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	if err := policy.validate(); err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}

	return &policy, nil
}

func (p *Policy) validate() error {
	for event := range p.Notifications.Templates {
		switch notify.Event(event) {
		case notify.EventCreated, notify.EventCompleted, notify.EventDelivered:
		default:
			return fmt.Errorf("unknown notification template %q", event)
		}
	}

	if p.Transitions.Restrict {
		for from, tos := range p.Transitions.Allowed {
			if !repair.Status(from).IsValid() {
				return fmt.Errorf("unknown status %q in transition policy", from)
			}
			for _, to := range tos {
				if !repair.Status(to).IsValid() {
					return fmt.Errorf("unknown status %q in transition policy", to)
				}
			}
		}
	}

	return nil
}

// TransitionPolicy builds the domain transition policy from the loaded config.
func (p *Policy) TransitionPolicy() *repair.TransitionPolicy {
	if !p.Transitions.Restrict {
		return repair.PermissiveTransitionPolicy()
	}

	transitions := make(map[repair.Status][]repair.Status, len(p.Transitions.Allowed))
	for from, tos := range p.Transitions.Allowed {
		statuses := make([]repair.Status, 0, len(tos))
		for _, to := range tos {
			statuses = append(statuses, repair.Status(to))
		}
		transitions[repair.Status(from)] = statuses
	}
	return repair.NewTransitionPolicy(transitions)
}

// ComposerConfig builds the notification composer configuration,
// merging the policy wording with link settings from the environment.
func (p *Policy) ComposerConfig(wa WhatsAppConfig) notify.Config {
	templates := make(map[notify.Event]string, len(p.Notifications.Templates))
	for event, tmpl := range p.Notifications.Templates {
		templates[notify.Event(event)] = tmpl
	}

	return notify.Config{
		Host:               wa.Host,
		DefaultCountryCode: wa.DefaultCountryCode,
		Currency:           p.Notifications.Currency,
		ShopName:           p.Notifications.ShopName,
		Templates:          templates,
	}
}
