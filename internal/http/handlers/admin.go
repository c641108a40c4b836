package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/rashadk/barberai-platform/internal/appointments"
	"github.com/rashadk/barberai-platform/pkg/logging"
)

// AdminHandler serves the barber's back-office endpoints: the appointment
// book and an operational stats snapshot.
type AdminHandler struct {
	repo     appointments.Repository
	gatherer prometheus.Gatherer
	logger   *logging.Logger
	now      func() time.Time
}

func NewAdminHandler(repo appointments.Repository, gatherer prometheus.Gatherer, logger *logging.Logger) *AdminHandler {
	if repo == nil {
		panic("handlers: appointment repository cannot be nil")
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{repo: repo, gatherer: gatherer, logger: logger, now: time.Now}
}

// WithClock injects a time source for tests.
func (h *AdminHandler) WithClock(now func() time.Time) *AdminHandler {
	if now != nil {
		h.now = now
	}
	return h
}

// HandleListAppointments returns the appointment book. With ?phone= it lists
// that customer's upcoming bookings; with ?date= it lists that day's booked
// slots; otherwise it lists recent appointments of any status, newest first.
func (h *AdminHandler) HandleListAppointments(w http.ResponseWriter, r *http.Request) {
	var (
		list []appointments.Appointment
		err  error
	)
	if phone := phoneDigits(r.URL.Query().Get("phone")); phone != "" {
		list, err = h.repo.ListUpcomingByPhone(r.Context(), phone, h.now().Format("2006-01-02"))
	} else if date := r.URL.Query().Get("date"); date != "" {
		if _, perr := time.Parse("2006-01-02", date); perr != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		list, err = h.repo.ListByDate(r.Context(), date)
	} else {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, perr := strconv.Atoi(raw); perr == nil && n > 0 {
				limit = n
			}
		}
		list, err = h.repo.ListRecent(r.Context(), limit)
	}
	if err != nil {
		h.logger.Error("admin: failed to list appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []appointments.Appointment{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"appointments": list})
}

// StatsSnapshot is the operational summary the admin dashboard renders.
type StatsSnapshot struct {
	Date              string             `json:"date"`
	AppointmentsToday int                `json:"appointments_today"`
	TurnsTotal        float64            `json:"turns_total"`
	TurnsByLanguage   map[string]float64 `json:"turns_by_language"`
	BookingsByKind    map[string]float64 `json:"bookings_by_kind"`
}

// HandleStats snapshots today's bookings and the dialogue counters.
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	today := h.now().Format("2006-01-02")

	todays, err := h.repo.ListByDate(r.Context(), today)
	if err != nil {
		h.logger.Error("admin: failed to count today's appointments", "error", err)
		http.Error(w, "failed to build stats", http.StatusInternalServerError)
		return
	}

	snap := StatsSnapshot{
		Date:              today,
		AppointmentsToday: len(todays),
		TurnsByLanguage:   map[string]float64{},
		BookingsByKind:    map[string]float64{},
	}
	h.scanDialogueCounters(&snap)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func (h *AdminHandler) scanDialogueCounters(snap *StatsSnapshot) {
	mfs, err := h.gatherer.Gather()
	if err != nil {
		h.logger.Warn("admin: failed to gather metrics", "error", err)
		return
	}
	for _, mf := range mfs {
		switch mf.GetName() {
		case "barberai_dialogue_turns_total":
			for _, metric := range mf.Metric {
				value := metric.GetCounter().GetValue()
				snap.TurnsTotal += value
				if lang := labelValue(metric, "language"); lang != "" {
					snap.TurnsByLanguage[lang] += value
				}
			}
		case "barberai_dialogue_bookings_total":
			for _, metric := range mf.Metric {
				if kind := labelValue(metric, "kind"); kind != "" {
					snap.BookingsByKind[kind] += metric.GetCounter().GetValue()
				}
			}
		}
	}
}

// phoneDigits strips formatting so lookups match the digits-only form the
// booking flow stores.
func phoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func labelValue(metric *dto.Metric, name string) string {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}
