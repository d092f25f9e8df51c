package forecast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ask_saturation/internal/models"
	"ask_saturation/internal/scoring"
)

var ErrBadRange = errors.New("invalid hour range")

var (
	regionalDemand = []float64{30, 45, 75, 95, 80, 60, 40, 35, 30, 25}
	weeklyLoad     = []models.LabeledLoad{
		{Label: "Mon", LoadPercent: 45},
		{Label: "Tue", LoadPercent: 52},
		{Label: "Wed", LoadPercent: 60},
		{Label: "Thu", LoadPercent: 85},
		{Label: "Fri", LoadPercent: 55},
		{Label: "Sat", LoadPercent: 92},
		{Label: "Sun", LoadPercent: 88},
	}
	monthlyLoad = []models.LabeledLoad{
		{Label: "Week 1", LoadPercent: 55},
		{Label: "Week 2", LoadPercent: 72},
		{Label: "Week 3", LoadPercent: 68},
		{Label: "Week 4", LoadPercent: 80},
	}
)

// Daily projects the hourly demand curve of date for fromHour..toHour.
func Daily(date time.Time, fromHour, toHour int) (models.DailyProjection, error) {
	if fromHour < 0 || toHour > 23 || fromHour > toHour {
		return models.DailyProjection{}, fmt.Errorf("%w: %d..%d", ErrBadRange, fromHour, toHour)
	}
	return models.DailyProjection{
		Date:       date.Format("2006-01-02"),
		Weekday:    date.Weekday().String(),
		Multiplier: scoring.WeekendMultiplier(date),
		Hours:      scoring.ProjectDailyDemand(date, fromHour, toHour),
	}, nil
}

// Trends returns the canned regional, weekly and monthly curves.
func Trends(month time.Month) models.Trends {
	regional := make([]models.HourlyLoad, len(regionalDemand))
	for i, load := range regionalDemand {
		regional[i] = models.HourlyLoad{Hour: scoring.DefaultFirstHour + i, LoadPercent: load}
	}

	name := month.String()[:3]
	return models.Trends{
		Month:          name,
		RegionalDemand: regional,
		Weekly:         append([]models.LabeledLoad(nil), weeklyLoad...),
		Monthly:        append([]models.LabeledLoad(nil), monthlyLoad...),
		Note:           name + " anticipates a 12% rise in address update requests.",
	}
}

// ParseMonth accepts "Jan".."Dec", full names or 1..12.
func ParseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(s, m.String()) || strings.EqualFold(s, m.String()[:3]) {
			return m, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return time.Month(n), nil
	}
	return 0, fmt.Errorf("unknown month %q", s)
}
