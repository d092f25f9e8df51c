package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ask_saturation/internal/i18n"
	"ask_saturation/internal/models"
	"ask_saturation/internal/repositories"
	"ask_saturation/internal/scoring"
	"ask_saturation/internal/tokens"
)

type recordingDispatcher struct {
	orders []models.ShiftOrder
	err    error
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, order models.ShiftOrder) error {
	if d.err != nil {
		return d.err
	}
	d.orders = append(d.orders, order)
	return nil
}

var allTriggers = models.TriggerState{SchemeActive: true, HolidayActive: true, BankDeadlineActive: true}

func newService(t *testing.T, centers []models.Center) (*DashboardService, *recordingDispatcher) {
	t.Helper()
	repo, err := repositories.NewStaticCenterRepository(centers)
	require.NoError(t, err)
	d := &recordingDispatcher{}
	booker := tokens.NewBooker(tokens.NewMemoryStore(time.Hour),
		tokens.WithClock(func() time.Time { return time.Date(2024, time.June, 3, 10, 0, 0, 0, time.UTC) }),
		tokens.WithIntn(func(int) int { return 42 }))
	return NewDashboardService(repo, booker, d), d
}

func TestEvaluate(t *testing.T) {
	svc, _ := newService(t, repositories.JabalpurCenters())
	ctx := context.Background()

	t.Run("no triggers", func(t *testing.T) {
		ov, err := svc.Evaluate(ctx, models.TriggerState{}, i18n.English)
		require.NoError(t, err)

		assert.Equal(t, 0, ov.Boost)
		assert.Equal(t, 5, ov.TotalCenters)
		assert.Equal(t, 79, ov.AvgWaitMinutes)
		assert.Equal(t, 1, ov.CriticalCenters)

		scores := make([]int, len(ov.Centers))
		zones := make([]models.Zone, len(ov.Centers))
		for i, sc := range ov.Centers {
			scores[i] = sc.SaturationScore
			zones[i] = sc.Zone
		}
		assert.Equal(t, []int{68, 39, 87, 51, 28}, scores)
		assert.Equal(t, []models.Zone{models.ZoneYellow, models.ZoneGreen, models.ZoneRed, models.ZoneYellow, models.ZoneGreen}, zones)
		assert.Equal(t, "🔴 Red", ov.Centers[2].ZoneLabel)
	})

	t.Run("every trigger", func(t *testing.T) {
		ov, err := svc.Evaluate(ctx, allTriggers, i18n.Hindi)
		require.NoError(t, err)

		assert.Equal(t, 45, ov.Boost)
		assert.Equal(t, 2, ov.CriticalCenters)
		assert.Equal(t, 86, ov.Centers[0].SaturationScore)
		assert.Equal(t, 100, ov.Centers[2].SaturationScore)
		assert.Equal(t, "🔴 लाल (गंभीर)", ov.Centers[2].ZoneLabel)
		assert.Equal(t, 79, ov.AvgWaitMinutes, "wait does not depend on triggers")
	})

	t.Run("empty reference data", func(t *testing.T) {
		empty, _ := newService(t, nil)
		ov, err := empty.Evaluate(ctx, models.TriggerState{}, i18n.English)
		require.NoError(t, err)
		assert.Equal(t, 0, ov.TotalCenters)
		assert.Equal(t, 0, ov.AvgWaitMinutes)
	})
}

func TestCenterStats(t *testing.T) {
	svc, _ := newService(t, repositories.JabalpurCenters())

	sc, err := svc.CenterStats(context.Background(), "ASK - Napier Town", models.TriggerState{}, i18n.English)
	require.NoError(t, err)
	assert.Equal(t, 68, sc.SaturationScore)
	assert.Equal(t, 88, sc.WaitMinutes)
	assert.Equal(t, "🟡 Yellow", sc.ZoneLabel)

	_, err = svc.CenterStats(context.Background(), "ASK - Nowhere", models.TriggerState{}, i18n.English)
	assert.ErrorIs(t, err, repositories.ErrCenterNotFound)
}

func TestBookToken(t *testing.T) {
	svc, _ := newService(t, repositories.JabalpurCenters())
	ctx := context.Background()

	tok, err := svc.BookToken(ctx, "sess", "ASK - Ranjhi", "Meera", models.TriggerState{})
	require.NoError(t, err)
	assert.Equal(t, "UID-1042", tok.ID)
	assert.Equal(t, 98, tok.WaitMinutes)
	assert.Equal(t, "11:38", tok.ServiceSlot())

	_, err = svc.BookToken(ctx, "sess", "ASK - Ranjhi", "", models.TriggerState{})
	assert.ErrorIs(t, err, tokens.ErrEmptyName)

	_, err = svc.BookToken(ctx, "sess", "ASK - Nowhere", "Meera", models.TriggerState{})
	assert.ErrorIs(t, err, repositories.ErrCenterNotFound)

	list, err := svc.SessionTokens(ctx, "sess")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other, err := svc.SessionTokens(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestNearestCenter(t *testing.T) {
	svc, _ := newService(t, repositories.JabalpurCenters())

	res, err := svc.NearestCenter(context.Background(), 23.170, 79.950)
	require.NoError(t, err)
	assert.Equal(t, "ASK - Napier Town", res.Nearest.Center.Name)
	assert.InDelta(t, 1.85, res.Nearest.DistanceKm, 0.05)
	require.Len(t, res.Ranking, 5)
	for i := 1; i < len(res.Ranking); i++ {
		assert.LessOrEqual(t, res.Ranking[i-1].DistanceKm, res.Ranking[i].DistanceKm)
	}
	assert.Equal(t, "ASK - Vijay Nagar", res.Ranking[4].Center.Name)

	at, err := svc.NearestCenter(context.Background(), 23.201, 79.895)
	require.NoError(t, err)
	assert.Equal(t, "ASK - Vijay Nagar", at.Nearest.Center.Name)
	assert.Equal(t, 0.0, at.Nearest.DistanceKm)

	empty, _ := newService(t, nil)
	_, err = empty.NearestCenter(context.Background(), 0, 0)
	assert.Error(t, err)
}

func TestStrategicAlert(t *testing.T) {
	svc, _ := newService(t, repositories.JabalpurCenters())

	alert, err := svc.StrategicAlert(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ASK - Vijay Nagar", alert.Primary().Center.Name)
	require.Len(t, alert.Relief, 2)
	assert.Equal(t, "ASK - Wright Town", alert.Relief[0].Center.Name)
	assert.Equal(t, "ASK - GCF Jabalpur", alert.Relief[1].Center.Name)

	t.Run("needs both a breached and a relief center", func(t *testing.T) {
		centers := repositories.JabalpurCenters()
		quiet, _ := newService(t, []models.Center{centers[1], centers[4]})
		_, err := quiet.StrategicAlert(context.Background())
		assert.ErrorIs(t, err, ErrNoAlert)

		busy, _ := newService(t, []models.Center{centers[0], centers[2]})
		_, err = busy.StrategicAlert(context.Background())
		assert.ErrorIs(t, err, ErrNoAlert)
	})
}

func TestExecuteShift(t *testing.T) {
	svc, d := newService(t, repositories.JabalpurCenters())

	order, err := svc.ExecuteShift(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ASK - GCF Jabalpur", order.From)
	assert.Equal(t, "ASK - Vijay Nagar", order.To)
	assert.NotEqual(t, uuid.Nil, order.ID)
	require.Len(t, d.orders, 1)
	assert.Equal(t, order, d.orders[0])

	t.Run("dispatch failure", func(t *testing.T) {
		failing, fd := newService(t, repositories.JabalpurCenters())
		fd.err = errors.New("broker unreachable")
		_, err := failing.ExecuteShift(context.Background())
		assert.ErrorContains(t, err, "broker unreachable")
	})

	t.Run("no alert", func(t *testing.T) {
		centers := repositories.JabalpurCenters()
		quiet, qd := newService(t, []models.Center{centers[1]})
		_, err := quiet.ExecuteShift(context.Background())
		assert.ErrorIs(t, err, ErrNoAlert)
		assert.Empty(t, qd.orders)
	})
}

func TestInvalidCenterSurfacesInvalidInput(t *testing.T) {
	svc, _ := newService(t, repositories.JabalpurCenters())
	svc.Centers = brokenSource{}

	_, err := svc.Evaluate(context.Background(), models.TriggerState{}, i18n.English)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}

type brokenSource struct{}

func (brokenSource) FindAll(context.Context) ([]models.Center, error) {
	return []models.Center{{Name: "no counters", HistoricalLoad: 10, RealtimeQueue: 10, StaffEfficiency: 0.5}}, nil
}

func (brokenSource) FindByName(ctx context.Context, name string) (models.Center, error) {
	return models.Center{}, repositories.ErrCenterNotFound
}
