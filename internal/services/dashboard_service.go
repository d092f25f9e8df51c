package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"ask_saturation/internal/dispatch"
	"ask_saturation/internal/i18n"
	"ask_saturation/internal/models"
	"ask_saturation/internal/scoring"
	"ask_saturation/internal/tokens"
)

var ErrNoAlert = errors.New("no strategic alert active")

const (
	breachedThreshold = 70
	reliefThreshold   = 50
)

// CenterSource supplies the reference centers.
type CenterSource interface {
	FindAll(ctx context.Context) ([]models.Center, error)
	FindByName(ctx context.Context, name string) (models.Center, error)
}

type DashboardService struct {
	Centers    CenterSource
	Tokens     *tokens.Booker
	Dispatcher dispatch.Dispatcher
	now        func() time.Time
}

func NewDashboardService(centers CenterSource, booker *tokens.Booker, dispatcher dispatch.Dispatcher) *DashboardService {
	if dispatcher == nil {
		dispatcher = dispatch.LogDispatcher{}
	}
	return &DashboardService{Centers: centers, Tokens: booker, Dispatcher: dispatcher, now: time.Now}
}

// Overview is the scored matrix with its headline KPIs.
type Overview struct {
	Centers         []models.ScoredCenter `json:"centers"`
	Boost           int                   `json:"boost"`
	TotalCenters    int                   `json:"total_centers"`
	AvgWaitMinutes  int                   `json:"avg_wait_minutes"`
	CriticalCenters int                   `json:"critical_centers"`
}

func (s *DashboardService) Evaluate(ctx context.Context, triggers models.TriggerState, lang i18n.Lang) (Overview, error) {
	centers, err := s.Centers.FindAll(ctx)
	if err != nil {
		return Overview{}, err
	}
	scored, err := scoring.ScoreAll(centers, triggers)
	if err != nil {
		return Overview{}, err
	}

	ov := Overview{
		Centers:      scored,
		Boost:        scoring.ComputeBoost(triggers),
		TotalCenters: len(scored),
	}
	totalWait := 0
	for i := range scored {
		scored[i].ZoneLabel = i18n.ZoneLabel(lang, scored[i].Zone)
		totalWait += scored[i].WaitMinutes
		if scored[i].Zone == models.ZoneRed {
			ov.CriticalCenters++
		}
	}
	if len(scored) > 0 {
		ov.AvgWaitMinutes = totalWait / len(scored)
	}
	return ov, nil
}

func (s *DashboardService) CenterStats(ctx context.Context, name string, triggers models.TriggerState, lang i18n.Lang) (models.ScoredCenter, error) {
	c, err := s.Centers.FindByName(ctx, name)
	if err != nil {
		return models.ScoredCenter{}, err
	}
	sc, err := scoring.Score(c, triggers)
	if err != nil {
		return models.ScoredCenter{}, err
	}
	sc.ZoneLabel = i18n.ZoneLabel(lang, sc.Zone)
	return sc, nil
}

// BookToken scores the center under the current triggers and issues a token
// with that wait estimate.
func (s *DashboardService) BookToken(ctx context.Context, session, centerName, requester string, triggers models.TriggerState) (models.Token, error) {
	sc, err := s.CenterStats(ctx, centerName, triggers, i18n.English)
	if err != nil {
		return models.Token{}, err
	}
	tok, err := s.Tokens.Book(ctx, session, sc, requester)
	if err != nil {
		return models.Token{}, err
	}
	log.Printf("Token %s booked at %s (wait %dm)", tok.ID, tok.CenterName, tok.WaitMinutes)
	return tok, nil
}

func (s *DashboardService) SessionTokens(ctx context.Context, session string) ([]models.Token, error) {
	return s.Tokens.List(ctx, session)
}

// Nearest holds the closest center and every center ranked by distance.
type Nearest struct {
	Nearest models.CenterDistance   `json:"nearest"`
	Ranking []models.CenterDistance `json:"ranking"`
}

func (s *DashboardService) NearestCenter(ctx context.Context, lat, lon float64) (Nearest, error) {
	centers, err := s.Centers.FindAll(ctx)
	if err != nil {
		return Nearest{}, err
	}
	if len(centers) == 0 {
		return Nearest{}, fmt.Errorf("no centers configured")
	}

	ranking := make([]models.CenterDistance, len(centers))
	for i, c := range centers {
		ranking[i] = models.CenterDistance{
			Center:     c,
			DistanceKm: scoring.GreatCircleDistanceKm(lat, lon, c.Latitude, c.Longitude),
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].DistanceKm < ranking[j].DistanceKm
	})
	return Nearest{Nearest: ranking[0], Ranking: ranking}, nil
}

// StrategicAlert compares centers on their baseline score, ignoring any
// trigger boost. An alert needs at least one breached center (>70) and one
// with spare capacity (<50).
func (s *DashboardService) StrategicAlert(ctx context.Context) (models.StrategicAlert, error) {
	centers, err := s.Centers.FindAll(ctx)
	if err != nil {
		return models.StrategicAlert{}, err
	}
	scored, err := scoring.ScoreAll(centers, models.TriggerState{})
	if err != nil {
		return models.StrategicAlert{}, err
	}

	var alert models.StrategicAlert
	for _, sc := range scored {
		switch {
		case sc.SaturationScore > breachedThreshold:
			alert.Breached = append(alert.Breached, sc)
		case sc.SaturationScore < reliefThreshold:
			alert.Relief = append(alert.Relief, sc)
		}
	}
	if len(alert.Breached) == 0 || len(alert.Relief) == 0 {
		return models.StrategicAlert{}, ErrNoAlert
	}
	return alert, nil
}

// ExecuteShift orders staff from the least loaded relief center to the
// primary breached center.
func (s *DashboardService) ExecuteShift(ctx context.Context) (models.ShiftOrder, error) {
	alert, err := s.StrategicAlert(ctx)
	if err != nil {
		return models.ShiftOrder{}, err
	}

	relief := alert.Relief[0]
	for _, sc := range alert.Relief[1:] {
		if sc.SaturationScore < relief.SaturationScore {
			relief = sc
		}
	}

	order := models.ShiftOrder{
		ID:       uuid.New(),
		From:     relief.Center.Name,
		To:       alert.Primary().Center.Name,
		IssuedAt: s.now(),
	}
	if err := s.Dispatcher.Dispatch(ctx, order); err != nil {
		return models.ShiftOrder{}, fmt.Errorf("error dispatching shift order: %w", err)
	}
	log.Printf("Shift order %s dispatched: %s -> %s", order.ID, order.From, order.To)
	return order, nil
}
