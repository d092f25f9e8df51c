// repositories/center_repo.go
package repositories

import (
	"context"
	"errors"
	"fmt"
	"math"

	"ask_saturation/internal/models"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var ErrCenterNotFound = errors.New("center not found")

// CenterRepository reads ASK reference data stored as (:ServiceCenter) nodes.
type CenterRepository struct {
	Driver neo4j.DriverWithContext
}

func NewCenterRepository(driver neo4j.DriverWithContext) *CenterRepository {
	return &CenterRepository{Driver: driver}
}

const centerReturn = `
        RETURN c.name AS name,
               c.historical_load AS historical_load,
               c.realtime_queue AS realtime_queue,
               c.active_counters AS active_counters,
               c.staff_efficiency AS staff_efficiency,
               c.latitude AS latitude,
               c.longitude AS longitude`

func (r *CenterRepository) FindAll(ctx context.Context) ([]models.Center, error) {
	query := `
        MATCH (c:ServiceCenter)` + centerReturn + `
        ORDER BY c.seq, c.name`
	centers, err := r.read(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching centers: %w", err)
	}
	return centers, nil
}

func (r *CenterRepository) FindByName(ctx context.Context, name string) (models.Center, error) {
	query := `
        MATCH (c:ServiceCenter {name: $name})` + centerReturn
	centers, err := r.read(ctx, query, map[string]any{"name": name})
	if err != nil {
		return models.Center{}, fmt.Errorf("error fetching center %s: %w", name, err)
	}
	if len(centers) == 0 {
		return models.Center{}, fmt.Errorf("%w: %s", ErrCenterNotFound, name)
	}
	return centers[0], nil
}

// UpsertCenter validates c and writes it, keeping the node's position in the listing.
func (r *CenterRepository) UpsertCenter(ctx context.Context, c models.Center) error {
	if err := c.Validate(); err != nil {
		return err
	}

	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MERGE (c:ServiceCenter {name: $name})
        ON CREATE SET c.seq = coalesce(c.seq, timestamp())
        SET c.historical_load = $historicalLoad,
            c.realtime_queue = $realtimeQueue,
            c.active_counters = $activeCounters,
            c.staff_efficiency = $staffEfficiency,
            c.latitude = $latitude,
            c.longitude = $longitude
        `
		_, err := tx.Run(ctx, query, centerParams(c))
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("error upserting center %s: %w", c.Name, err)
	}
	return nil
}

func (r *CenterRepository) read(ctx context.Context, query string, params map[string]any) ([]models.Center, error) {
	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	return neo4j.ExecuteRead(ctx, session, func(tx neo4j.ManagedTransaction) ([]models.Center, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		var centers []models.Center
		for result.Next(ctx) {
			c, err := centerFromRecord(result.Record())
			if err != nil {
				return nil, err
			}
			centers = append(centers, c)
		}
		return centers, result.Err()
	})
}

func centerParams(c models.Center) map[string]any {
	return map[string]any{
		"name":            c.Name,
		"historicalLoad":  c.HistoricalLoad,
		"realtimeQueue":   c.RealtimeQueue,
		"activeCounters":  c.ActiveCounters,
		"staffEfficiency": c.StaffEfficiency,
		"latitude":        c.Latitude,
		"longitude":       c.Longitude,
	}
}

// centerFromRecord maps a result row and validates it, so bad reference data
// fails at load time instead of inside the scoring formulas.
func centerFromRecord(record *neo4j.Record) (models.Center, error) {
	name, err := stringValue(record, "name")
	if err != nil {
		return models.Center{}, err
	}

	var fields [6]float64
	keys := [6]string{"historical_load", "realtime_queue", "active_counters", "staff_efficiency", "latitude", "longitude"}
	for i, key := range keys {
		if fields[i], err = numberValue(record, key); err != nil {
			return models.Center{}, fmt.Errorf("center %s: %w", name, err)
		}
	}

	if counters := fields[2]; counters != math.Trunc(counters) {
		return models.Center{}, &models.ValidationError{
			Center: name, Field: "active_counters", Value: counters, Reason: "must be a whole number",
		}
	}
	return models.NewCenter(name, fields[0], fields[1], int(fields[2]), fields[3], fields[4], fields[5])
}

func stringValue(record *neo4j.Record, key string) (string, error) {
	raw, ok := record.Get(key)
	if !ok || raw == nil {
		return "", fmt.Errorf("missing %s", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", key, raw)
	}
	return s, nil
}

// numberValue accepts both integer and float properties.
func numberValue(record *neo4j.Record, key string) (float64, error) {
	raw, ok := record.Get(key)
	if !ok || raw == nil {
		return 0, fmt.Errorf("missing %s", key)
	}
	switch v := raw.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("%s: expected number, got %T", key, raw)
	}
}
