// models/zone.go
package models

// Zone is the coarse crowding level of a center.
type Zone string

const (
	ZoneGreen  Zone = "GREEN"
	ZoneYellow Zone = "YELLOW"
	ZoneRed    Zone = "RED"
)

// TriggerState holds the external demand events currently switched on.
type TriggerState struct {
	SchemeActive       bool `json:"scheme_active"`
	HolidayActive      bool `json:"holiday_active"`
	BankDeadlineActive bool `json:"bank_deadline_active"`
}

// ScoredCenter is a Center evaluated against one TriggerState.
type ScoredCenter struct {
	Center          Center `json:"center"`
	SaturationScore int    `json:"saturation_score"`
	WaitMinutes     int    `json:"wait_minutes"`
	Zone            Zone   `json:"zone"`
	ZoneLabel       string `json:"zone_label,omitempty"`
}

// CenterDistance pairs a center with its distance from a point.
type CenterDistance struct {
	Center     Center  `json:"center"`
	DistanceKm float64 `json:"distance_km"`
}
