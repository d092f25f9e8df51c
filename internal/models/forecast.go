// models/forecast.go
package models

// HourlyLoad is the projected load of one hour of the service day.
type HourlyLoad struct {
	Hour        int     `json:"hour"`
	LoadPercent float64 `json:"load_percent"`
}

// LabeledLoad is a point on a canned trend curve.
type LabeledLoad struct {
	Label       string  `json:"label"`
	LoadPercent float64 `json:"load_percent"`
}

type DailyProjection struct {
	Date       string       `json:"date"`
	Weekday    string       `json:"weekday"`
	Multiplier float64      `json:"multiplier"`
	Hours      []HourlyLoad `json:"hours"`
}

// LoadAt returns the projected load for hour, if the projection covers it.
func (p DailyProjection) LoadAt(hour int) (float64, bool) {
	for _, h := range p.Hours {
		if h.Hour == hour {
			return h.LoadPercent, true
		}
	}
	return 0, false
}

type Trends struct {
	Month          string        `json:"month"`
	RegionalDemand []HourlyLoad  `json:"regional_demand"`
	Weekly         []LabeledLoad `json:"weekly"`
	Monthly        []LabeledLoad `json:"monthly"`
	Note           string        `json:"note"`
}
