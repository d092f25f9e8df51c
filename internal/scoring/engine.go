// Package scoring holds the demand scoring formulas for service centers.
// Every function is pure: results depend only on the arguments.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"time"

	"ask_saturation/internal/models"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	schemeBoost       = 20
	holidayBoost      = 10
	bankDeadlineBoost = 15

	earthRadiusKm = 6371.0

	peakHour        = 13
	peakLoad        = 95.0
	loadStepPerHour = 12.0
	minHourlyLoad   = 15.0
	maxHourlyLoad   = 98.0
	weekendFactor   = 1.35

	DefaultFirstHour = 9
	DefaultLastHour  = 18
)

// ComputeBoost returns the additive load boost of the active triggers.
func ComputeBoost(t models.TriggerState) int {
	boost := 0
	if t.SchemeActive {
		boost += schemeBoost
	}
	if t.HolidayActive {
		boost += holidayBoost
	}
	if t.BankDeadlineActive {
		boost += bankDeadlineBoost
	}
	return boost
}

// ComputeSaturation blends the historical baseline, the boosted baseline and
// the live queue. The result is clamped to [0,100] and truncated, not rounded.
func ComputeSaturation(c models.Center, boost int) int {
	raw := 0.4*c.HistoricalLoad + 0.4*(c.HistoricalLoad+float64(boost)) + 0.2*c.RealtimeQueue
	return int(clamp(raw, 0, 100))
}

// MaxWaitMinutes caps wait estimates so they stay representable as a
// time.Duration.
const MaxWaitMinutes = 100_000_000

// ComputeWaitMinutes estimates the minutes until service, truncated and
// capped at MaxWaitMinutes.
func ComputeWaitMinutes(c models.Center) (int, error) {
	if c.ActiveCounters <= 0 || c.StaffEfficiency <= 0 {
		return 0, fmt.Errorf("%w: wait time for %q needs active_counters>0 and staff_efficiency>0 (got %d, %v)",
			ErrInvalidInput, c.Name, c.ActiveCounters, c.StaffEfficiency)
	}
	raw := (c.RealtimeQueue * 5) / (float64(c.ActiveCounters) * c.StaffEfficiency)
	switch {
	case math.IsNaN(raw):
		return 0, fmt.Errorf("%w: wait time for %q is not a number", ErrInvalidInput, c.Name)
	case raw >= MaxWaitMinutes:
		return MaxWaitMinutes, nil
	case raw < 0:
		return 0, nil
	}
	return int(raw), nil
}

// ClassifyZone maps a saturation score to its zone. Both thresholds are
// exclusive: 80 is YELLOW and 50 is GREEN.
func ClassifyZone(score int) models.Zone {
	switch {
	case score > 80:
		return models.ZoneRed
	case score > 50:
		return models.ZoneYellow
	default:
		return models.ZoneGreen
	}
}

// Score evaluates one center under the given triggers.
func Score(c models.Center, t models.TriggerState) (models.ScoredCenter, error) {
	wait, err := ComputeWaitMinutes(c)
	if err != nil {
		return models.ScoredCenter{}, err
	}
	score := ComputeSaturation(c, ComputeBoost(t))
	return models.ScoredCenter{
		Center:          c,
		SaturationScore: score,
		WaitMinutes:     wait,
		Zone:            ClassifyZone(score),
	}, nil
}

// ScoreAll evaluates centers in order, stopping at the first invalid one.
func ScoreAll(centers []models.Center, t models.TriggerState) ([]models.ScoredCenter, error) {
	scored := make([]models.ScoredCenter, 0, len(centers))
	for _, c := range centers {
		sc, err := Score(c, t)
		if err != nil {
			return nil, err
		}
		scored = append(scored, sc)
	}
	return scored, nil
}

// GreatCircleDistanceKm is the haversine distance between two points.
func GreatCircleDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// WeekendMultiplier is 1.35 on Saturdays and Sundays and 1.0 otherwise.
func WeekendMultiplier(date time.Time) float64 {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return weekendFactor
	}
	return 1.0
}

// HourlyLoad projects the load of a single hour on the given date.
func HourlyLoad(date time.Time, hour int) float64 {
	raw := (peakLoad - math.Abs(float64(peakHour-hour))*loadStepPerHour) * WeekendMultiplier(date)
	return clamp(raw, minHourlyLoad, maxHourlyLoad)
}

// ProjectDailyDemand returns the load curve for hours fromHour..toHour
// inclusive. An inverted range yields an empty curve.
func ProjectDailyDemand(date time.Time, fromHour, toHour int) []models.HourlyLoad {
	if fromHour > toHour {
		return []models.HourlyLoad{}
	}
	curve := make([]models.HourlyLoad, 0, toHour-fromHour+1)
	for h := fromHour; h <= toHour; h++ {
		curve = append(curve, models.HourlyLoad{Hour: h, LoadPercent: HourlyLoad(date, h)})
	}
	return curve
}

// DefaultDailyDemand projects the 09:00-18:00 service day.
func DefaultDailyDemand(date time.Time) []models.HourlyLoad {
	return ProjectDailyDemand(date, DefaultFirstHour, DefaultLastHour)
}

// clamp maps NaN to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
