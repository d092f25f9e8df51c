package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"ask_saturation/internal/forecast"
	"ask_saturation/internal/i18n"
	"ask_saturation/internal/models"
	"ask_saturation/internal/repositories"
	"ask_saturation/internal/scoring"
	"ask_saturation/internal/services"
	"ask_saturation/internal/tokens"
)

const SessionHeader = "X-Session-ID"

type Handler struct {
	Dashboard *services.DashboardService
	now       func() time.Time
}

func NewHandler(dashboard *services.DashboardService) *Handler {
	return &Handler{Dashboard: dashboard, now: time.Now}
}

// Register mounts every route on r. Admin routes are not access controlled.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/centers", h.ListCenters).Methods(http.MethodGet)
	api.HandleFunc("/centers/{name}/stats", h.CenterStats).Methods(http.MethodGet)
	api.HandleFunc("/overview", h.Overview).Methods(http.MethodGet)
	api.HandleFunc("/tokens", h.BookToken).Methods(http.MethodPost)
	api.HandleFunc("/tokens", h.ListTokens).Methods(http.MethodGet)
	api.HandleFunc("/nearest", h.Nearest).Methods(http.MethodGet)
	api.HandleFunc("/admin/alert", h.Alert).Methods(http.MethodGet)
	api.HandleFunc("/admin/shift", h.Shift).Methods(http.MethodPost)
	api.HandleFunc("/forecast/daily", h.DailyForecast).Methods(http.MethodGet)
	api.HandleFunc("/forecast/trends", h.Trends).Methods(http.MethodGet)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := h.Dashboard.Centers.FindAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, centers)
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	triggers, err := triggersFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ov, err := h.Dashboard.Evaluate(r.Context(), triggers, langOf(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (h *Handler) CenterStats(w http.ResponseWriter, r *http.Request) {
	triggers, err := triggersFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sc, err := h.Dashboard.CenterStats(r.Context(), mux.Vars(r)["name"], triggers, langOf(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

type bookRequest struct {
	Center   string              `json:"center"`
	Name     string              `json:"name"`
	Triggers models.TriggerState `json:"triggers"`
}

type bookResponse struct {
	Token       models.Token `json:"token"`
	ServiceSlot string       `json:"service_slot"`
	Message     string       `json:"message"`
}

func (h *Handler) BookToken(w http.ResponseWriter, r *http.Request) {
	session := sessionOf(w, r)

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Center == "" {
		http.Error(w, "'center' is required", http.StatusBadRequest)
		return
	}

	tok, err := h.Dashboard.BookToken(r.Context(), session, req.Center, req.Name, req.Triggers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookResponse{
		Token:       tok,
		ServiceSlot: tok.ServiceSlot(),
		Message:     fmt.Sprintf(i18n.Message(langOf(r), i18n.MsgTokenIssued), tok.ID),
	})
}

func (h *Handler) ListTokens(w http.ResponseWriter, r *http.Request) {
	list, err := h.Dashboard.SessionTokens(r.Context(), sessionOf(w, r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type nearestResponse struct {
	services.Nearest
	Message string `json:"message"`
}

func (h *Handler) Nearest(w http.ResponseWriter, r *http.Request) {
	lat, err := floatParam(r, "lat", -90, 90)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	lon, err := floatParam(r, "lon", -180, 180)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.Dashboard.NearestCenter(r.Context(), lat, lon)
	if err != nil {
		writeError(w, err)
		return
	}
	lang := langOf(r)
	writeJSON(w, http.StatusOK, nearestResponse{
		Nearest: res,
		Message: fmt.Sprintf("%s %s (%.2f %s)", i18n.Message(lang, i18n.MsgNearestFound),
			res.Nearest.Center.Name, res.Nearest.DistanceKm, i18n.Message(lang, i18n.MsgKmAway)),
	})
}

type alertResponse struct {
	Active  bool                   `json:"active"`
	Alert   *models.StrategicAlert `json:"alert,omitempty"`
	Message string                 `json:"message,omitempty"`
}

func (h *Handler) Alert(w http.ResponseWriter, r *http.Request) {
	alert, err := h.Dashboard.StrategicAlert(r.Context())
	if errors.Is(err, services.ErrNoAlert) {
		writeJSON(w, http.StatusOK, alertResponse{Active: false})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alertResponse{
		Active:  true,
		Alert:   &alert,
		Message: fmt.Sprintf(i18n.Message(langOf(r), i18n.MsgAlertBreached), alert.Primary().Center.Name),
	})
}

type shiftResponse struct {
	Order   models.ShiftOrder `json:"order"`
	Message string            `json:"message"`
}

func (h *Handler) Shift(w http.ResponseWriter, r *http.Request) {
	order, err := h.Dashboard.ExecuteShift(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, shiftResponse{
		Order:   order,
		Message: i18n.Message(langOf(r), i18n.MsgShiftSent),
	})
}

type dailyResponse struct {
	models.DailyProjection
	SelectedHour *int     `json:"selected_hour,omitempty"`
	SelectedLoad *float64 `json:"selected_load,omitempty"`
}

func (h *Handler) DailyForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	date := h.now()
	if raw := q.Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "'date' must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	from, err := intParam(r, "from", scoring.DefaultFirstHour)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := intParam(r, "to", scoring.DefaultLastHour)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	projection, err := forecast.Daily(date, from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := dailyResponse{DailyProjection: projection}
	if q.Get("at") != "" {
		at, err := intParam(r, "at", 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		load, ok := projection.LoadAt(at)
		if !ok {
			http.Error(w, fmt.Sprintf("'at' must be within %d..%d", from, to), http.StatusBadRequest)
			return
		}
		resp.SelectedHour = &at
		resp.SelectedLoad = &load
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	month := h.now().Month()
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := forecast.ParseMonth(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		month = m
	}
	writeJSON(w, http.StatusOK, forecast.Trends(month))
}

// sessionOf returns the caller's session, issuing a new one when the header is absent.
func sessionOf(w http.ResponseWriter, r *http.Request) string {
	session := r.Header.Get(SessionHeader)
	if session == "" {
		session = uuid.NewString()
	}
	w.Header().Set(SessionHeader, session)
	return session
}

func langOf(r *http.Request) i18n.Lang {
	return i18n.ParseLang(r.URL.Query().Get("lang"))
}

func triggersFromQuery(r *http.Request) (models.TriggerState, error) {
	var t models.TriggerState
	for key, dst := range map[string]*bool{
		"scheme":  &t.SchemeActive,
		"holiday": &t.HolidayActive,
		"bank":    &t.BankDeadlineActive,
	} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return models.TriggerState{}, fmt.Errorf("'%s' must be a boolean", key)
		}
		*dst = v
	}
	return t, nil
}

func floatParam(r *http.Request, key string, lo, hi float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, fmt.Errorf("'%s' is required", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(v >= lo && v <= hi) {
		return 0, fmt.Errorf("'%s' must be a number within [%v,%v]", key, lo, hi)
	}
	return v, nil
}

func intParam(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("'%s' must be an integer", key)
	}
	return v, nil
}

func writeError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, repositories.ErrCenterNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, tokens.ErrEmptyName), errors.As(err, &verr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNoAlert):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("request failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON encodes before writing the status, so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("error encoding response: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
