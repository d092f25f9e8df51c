// models/center.go
package models

import "fmt"

// Center is the reference record of an Aadhaar Seva Kendra.
type Center struct {
	Name            string  `json:"name"`
	HistoricalLoad  float64 `json:"historical_load"`
	RealtimeQueue   float64 `json:"realtime_queue"`
	ActiveCounters  int     `json:"active_counters"`
	StaffEfficiency float64 `json:"staff_efficiency"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
}

// ValidationError reports a Center field outside its allowed range.
type ValidationError struct {
	Center string
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Center == "" {
		return fmt.Sprintf("invalid center: %s=%v: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid center %q: %s=%v: %s", e.Center, e.Field, e.Value, e.Reason)
}

// NewCenter builds a Center and rejects it when any field is out of range.
func NewCenter(name string, historicalLoad, realtimeQueue float64, activeCounters int, staffEfficiency, lat, lon float64) (Center, error) {
	c := Center{
		Name:            name,
		HistoricalLoad:  historicalLoad,
		RealtimeQueue:   realtimeQueue,
		ActiveCounters:  activeCounters,
		StaffEfficiency: staffEfficiency,
		Latitude:        lat,
		Longitude:       lon,
	}
	if err := c.Validate(); err != nil {
		return Center{}, err
	}
	return c, nil
}

// Validate checks the ranges the scoring formulas rely on. The checks are
// written so that NaN fails every one of them.
func (c Center) Validate() error {
	fail := func(field string, value any, reason string) error {
		return &ValidationError{Center: c.Name, Field: field, Value: value, Reason: reason}
	}

	switch {
	case c.Name == "":
		return fail("name", c.Name, "must not be empty")
	case !(c.HistoricalLoad >= 0 && c.HistoricalLoad <= 100):
		return fail("historical_load", c.HistoricalLoad, "must be within [0,100]")
	case !(c.RealtimeQueue >= 0 && c.RealtimeQueue <= 100):
		return fail("realtime_queue", c.RealtimeQueue, "must be within [0,100]")
	case c.ActiveCounters < 1:
		return fail("active_counters", c.ActiveCounters, "must be at least 1")
	case !(c.StaffEfficiency > 0 && c.StaffEfficiency <= 1):
		return fail("staff_efficiency", c.StaffEfficiency, "must be within (0,1]")
	case !(c.Latitude >= -90 && c.Latitude <= 90):
		return fail("latitude", c.Latitude, "must be within [-90,90]")
	case !(c.Longitude >= -180 && c.Longitude <= 180):
		return fail("longitude", c.Longitude, "must be within [-180,180]")
	}
	return nil
}
