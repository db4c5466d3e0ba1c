package domain

import "time"

// AlertFrequency is how often a saved search notifies its owner
type AlertFrequency string

const (
	AlertImmediate AlertFrequency = "immediate"
	AlertDaily     AlertFrequency = "daily"
	AlertWeekly    AlertFrequency = "weekly"
	AlertNever     AlertFrequency = "never"
)

// Valid reports whether f is a known frequency
func (f AlertFrequency) Valid() bool {
	switch f {
	case AlertImmediate, AlertDaily, AlertWeekly, AlertNever:
		return true
	}
	return false
}

// SavedSearch is a named, persisted query and filter snapshot
type SavedSearch struct {
	ID                 string         `json:"id" yaml:"id"`
	Name               string         `json:"name" yaml:"name" validate:"required,max=100"`
	Query              string         `json:"query" yaml:"query"`
	Filters            SearchFilters  `json:"filters" yaml:"filters"`
	IsPublic           bool           `json:"is_public" yaml:"is_public"`
	CreatedAt          time.Time      `json:"created_at" yaml:"created_at"`
	LastUsed           time.Time      `json:"last_used" yaml:"last_used"`
	AlertFrequency     AlertFrequency `json:"alert_frequency" yaml:"alert_frequency" validate:"required,alertfreq"`
	EmailNotifications bool           `json:"email_notifications" yaml:"email_notifications"`
}

// Clone returns a deep copy
func (s SavedSearch) Clone() SavedSearch {
	out := s
	out.Filters = s.Filters.Clone()
	return out
}

// SaveOptions carries the optional attributes of a new saved search
type SaveOptions struct {
	IsPublic           bool
	AlertFrequency     AlertFrequency
	EmailNotifications bool
}
