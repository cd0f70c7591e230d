// internal/presenter/status.go
package presenter

import (
	"strings"
	"time"
)

type Status string

const (
	StatusUpcoming Status = "Upcoming"
	StatusActive   Status = "Active"
	StatusEnded    Status = "Ended"
)

// Badge is the CSS modifier used for the status pill.
func (s Status) Badge() string {
	switch s {
	case StatusUpcoming:
		return "badge-upcoming"
	case StatusEnded:
		return "badge-ended"
	}
	return "badge-active"
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the date shapes the backend and the wizard form produce.
// Values without a zone are read as local time.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CampaignStatus is recomputed on every render. A date that does not parse
// compares false both ways, so the campaign reads as Active.
func CampaignStatus(now time.Time, start, end string) Status {
	if st, ok := ParseDate(start); ok && now.Before(st) {
		return StatusUpcoming
	}
	if en, ok := ParseDate(end); ok && now.After(en) {
		return StatusEnded
	}
	return StatusActive
}
