package repositories

import (
	"context"
	"fmt"

	"ask_saturation/internal/models"
)

// StaticCenterRepository serves reference data held in memory. The slice is
// copied on every read so callers cannot mutate it.
type StaticCenterRepository struct {
	centers []models.Center
}

// NewStaticCenterRepository validates every center up front.
func NewStaticCenterRepository(centers []models.Center) (*StaticCenterRepository, error) {
	seen := make(map[string]bool, len(centers))
	for _, c := range centers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate center %q", c.Name)
		}
		seen[c.Name] = true
	}
	return &StaticCenterRepository{centers: append([]models.Center(nil), centers...)}, nil
}

// JabalpurCenters is the reference set the dashboard ships with.
func JabalpurCenters() []models.Center {
	return []models.Center{
		{Name: "ASK - Napier Town", HistoricalLoad: 65, RealtimeQueue: 80, ActiveCounters: 5, StaffEfficiency: 0.9, Latitude: 23.168, Longitude: 79.932},
		{Name: "ASK - Wright Town", HistoricalLoad: 40, RealtimeQueue: 35, ActiveCounters: 3, StaffEfficiency: 0.85, Latitude: 23.163, Longitude: 79.928},
		{Name: "ASK - Vijay Nagar", HistoricalLoad: 85, RealtimeQueue: 95, ActiveCounters: 6, StaffEfficiency: 0.95, Latitude: 23.201, Longitude: 79.895},
		{Name: "ASK - Ranjhi", HistoricalLoad: 50, RealtimeQueue: 55, ActiveCounters: 4, StaffEfficiency: 0.7, Latitude: 23.185, Longitude: 79.980},
		{Name: "ASK - GCF Jabalpur", HistoricalLoad: 30, RealtimeQueue: 20, ActiveCounters: 2, StaffEfficiency: 0.8, Latitude: 23.190, Longitude: 79.960},
	}
}

func (r *StaticCenterRepository) FindAll(ctx context.Context) ([]models.Center, error) {
	return append([]models.Center(nil), r.centers...), nil
}

func (r *StaticCenterRepository) FindByName(ctx context.Context, name string) (models.Center, error) {
	for _, c := range r.centers {
		if c.Name == name {
			return c, nil
		}
	}
	return models.Center{}, fmt.Errorf("%w: %s", ErrCenterNotFound, name)
}
