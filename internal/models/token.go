// models/token.go
package models

import "time"

// Token is an e-token booked by a citizen during a session.
type Token struct {
	ID                   string    `json:"id"`
	CenterName           string    `json:"center_name"`
	RequesterName        string    `json:"requester_name"`
	WaitMinutes          int       `json:"wait_minutes"`
	IssuedAt             time.Time `json:"issued_at"`
	EstimatedServiceTime time.Time `json:"estimated_service_time"`
}

// ServiceSlot is the HH:MM the citizen should expect to be served.
func (t Token) ServiceSlot() string {
	return t.EstimatedServiceTime.Format("15:04")
}
