package ledger

import "time"

// Status is derived from the election time window, never persisted. Every
// call site (ledger rules, coordinator preflight, catalog display) must go
// through StatusAt so there is exactly one definition of "active".
type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// StatusAt computes the election status at the given instant. Start and end
// are Unix seconds; both boundaries are inclusive for the active window.
func StatusAt(startTime, endTime int64, now time.Time) Status {
	ts := now.Unix()
	switch {
	case ts < startTime:
		return StatusDraft
	case ts <= endTime:
		return StatusActive
	default:
		return StatusClosed
	}
}
