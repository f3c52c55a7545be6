package models

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// Session is the single in-flight focus session of a user. Only an active
// session is ever persisted; completed and abandoned are transient statuses
// seen mid-operation.
type Session struct {
	StartedAt       time.Time     `json:"startedAt"`
	DurationMinutes int           `json:"durationMinutes"`
	ItemType        string        `json:"itemType"`
	Status          SessionStatus `json:"status"`
}

func (s *Session) IsActive() bool {
	return s != nil && s.Status == SessionActive
}
