package repositories

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ask_saturation/internal/models"
)

func record(values ...any) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"name", "historical_load", "realtime_queue", "active_counters", "staff_efficiency", "latitude", "longitude"},
		Values: values,
	}
}

func TestCenterFromRecord(t *testing.T) {
	t.Run("mixed integer and float properties", func(t *testing.T) {
		c, err := centerFromRecord(record("ASK - Ranjhi", int64(50), 55.0, int64(4), 0.7, 23.185, 79.980))
		require.NoError(t, err)
		assert.Equal(t, models.Center{
			Name: "ASK - Ranjhi", HistoricalLoad: 50, RealtimeQueue: 55, ActiveCounters: 4,
			StaffEfficiency: 0.7, Latitude: 23.185, Longitude: 79.980,
		}, c)
	})

	t.Run("missing property", func(t *testing.T) {
		_, err := centerFromRecord(record("ASK - Ranjhi", nil, 55.0, int64(4), 0.7, 23.185, 79.980))
		assert.ErrorContains(t, err, "missing historical_load")
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := centerFromRecord(record("ASK - Ranjhi", "fifty", 55.0, int64(4), 0.7, 23.185, 79.980))
		assert.ErrorContains(t, err, "expected number")
	})

	t.Run("out of range data is rejected", func(t *testing.T) {
		_, err := centerFromRecord(record("ASK - Ranjhi", 50.0, 55.0, int64(0), 0.7, 23.185, 79.980))
		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "active_counters", verr.Field)
	})

	t.Run("fractional counters are rejected", func(t *testing.T) {
		_, err := centerFromRecord(record("ASK - Ranjhi", 50.0, 55.0, 2.5, 0.7, 23.185, 79.980))
		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "active_counters", verr.Field)
		assert.Equal(t, 2.5, verr.Value)
	})

	t.Run("NaN properties are rejected", func(t *testing.T) {
		_, err := centerFromRecord(record("ASK - Ranjhi", math.NaN(), 55.0, int64(4), 0.7, 23.185, 79.980))
		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "historical_load", verr.Field)
	})
}

func TestCenterParams(t *testing.T) {
	c := JabalpurCenters()[0]
	params := centerParams(c)
	assert.Equal(t, "ASK - Napier Town", params["name"])
	assert.Equal(t, 5, params["activeCounters"])
	assert.Equal(t, 0.9, params["staffEfficiency"])
}

func TestStaticCenterRepository(t *testing.T) {
	ctx := context.Background()
	repo, err := NewStaticCenterRepository(JabalpurCenters())
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "ASK - Napier Town", all[0].Name)

	all[0].HistoricalLoad = 0
	again, _ := repo.FindAll(ctx)
	assert.Equal(t, 65.0, again[0].HistoricalLoad, "callers get a copy")

	c, err := repo.FindByName(ctx, "ASK - Ranjhi")
	require.NoError(t, err)
	assert.Equal(t, 4, c.ActiveCounters)

	_, err = repo.FindByName(ctx, "ASK - Nowhere")
	assert.ErrorIs(t, err, ErrCenterNotFound)
}

func TestStaticCenterRepositoryRejectsBadData(t *testing.T) {
	centers := JabalpurCenters()
	centers[1].StaffEfficiency = 1.5
	_, err := NewStaticCenterRepository(centers)
	assert.Error(t, err)

	dup := append(JabalpurCenters(), JabalpurCenters()[0])
	_, err = NewStaticCenterRepository(dup)
	assert.ErrorContains(t, err, "duplicate")
}
