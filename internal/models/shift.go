// models/shift.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// StrategicAlert names a center whose capacity is breached and the centers
// that have spare capacity to relieve it.
type StrategicAlert struct {
	Breached []ScoredCenter `json:"breached"`
	Relief   []ScoredCenter `json:"relief"`
}

// Primary is the breached center reported to administrators.
func (a StrategicAlert) Primary() ScoredCenter {
	return a.Breached[0]
}

// ShiftOrder moves staff from a relief center to a breached one.
type ShiftOrder struct {
	ID       uuid.UUID `json:"id"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	IssuedAt time.Time `json:"issued_at"`
}
