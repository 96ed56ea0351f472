package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/albapepper/waktu/internal/api/respond"
	"github.com/albapepper/waktu/internal/cache"
	"github.com/albapepper/waktu/internal/calendar"
	"github.com/albapepper/waktu/internal/notifications"
	"github.com/albapepper/waktu/internal/refresh"
	"github.com/albapepper/waktu/internal/timetable"
)

// GetPrayers returns the resolved prayers for a date.
// @Summary Prayers for a date
// @Description Resolved prayers for a day, grouped while traveling unless full=true. Defaults to today.
// @Tags prayers
// @Produce json
// @Param date query string false "YYYY-MM-DD"
// @Param full query bool false "Return the full list even while traveling"
// @Success 200 {array} prayer.Prayer
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /prayers [get]
func (h *Handler) GetPrayers(w http.ResponseWriter, r *http.Request) {
	date := h.orch.Today()
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := timetable.ParseDate(s)
		if err != nil {
			respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD", err.Error())
			return
		}
		date = d
	}
	full := queryBool(r, "full")

	var gen uint64
	if snap := h.orch.Snapshot(); snap != nil {
		gen = snap.Generation
	}
	key := cache.PrayersKey(date.String(), full, gen)
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLPrayers, true)
		return
	}

	list, ok, err := h.orch.Prayers(r.Context(), date, full)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "UNRESOLVED", "No timetable for "+date.String())
		return
	}

	data, err := json.Marshal(list)
	if err != nil {
		h.writeError(w, err)
		return
	}
	etag := h.cache.Set(key, data, cache.TTLPrayers)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, cache.TTLPrayers, false)
}

// GetCurrent returns the current and next prayer.
// @Summary Current and next prayer
// @Description Runs a refresh when no snapshot exists for today.
// @Tags prayers
// @Produce json
// @Success 200 {object} prayer.Position
// @Failure 409 {object} respond.ErrorResponse
// @Router /prayers/current [get]
func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	snap := h.orch.Snapshot()
	if snap == nil || snap.Date != h.orch.Today() {
		var err error
		snap, err = h.orch.Run(r.Context(), refresh.Request{})
		if err != nil {
			h.writeError(w, err)
			return
		}
	}
	respond.WriteJSONObject(w, http.StatusOK, snap.Position)
}

// GetSnapshot returns the last committed refresh snapshot.
// @Summary Last refresh snapshot
// @Tags refresh
// @Produce json
// @Success 200 {object} refresh.Snapshot
// @Failure 404 {object} respond.ErrorResponse
// @Router /snapshot [get]
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := h.orch.Snapshot()
	if snap == nil {
		respond.WriteError(w, http.StatusNotFound, "NO_SNAPSHOT", "No refresh has completed yet")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, snap)
}

// PostRefresh runs a refresh pass.
// @Summary Run a refresh pass
// @Tags refresh
// @Produce json
// @Param force query bool false "Refetch even when the cache is fresh"
// @Success 200 {object} refresh.Snapshot
// @Failure 409 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /refresh [post]
func (h *Handler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.orch.Run(r.Context(), refresh.Request{Force: queryBool(r, "force")})
	h.cache.Purge()
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, snap)
}

// GetHijri returns today's Hijri date.
// @Summary Today's Hijri date
// @Description Umm al-Qura date shifted by the configured day offset.
// @Tags calendar
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /hijri [get]
func (h *Handler) GetHijri(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	today, err := calendar.Today(now, h.orch.Location(), h.cfg.HijriOffset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	upcoming, err := calendar.Upcoming(now, h.orch.Location(), h.cfg.HijriOffset, calendar.Events)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"date":     today,
		"display":  today.String(),
		"offset":   h.cfg.HijriOffset,
		"upcoming": upcoming,
	})
}

// --------------------------------------------------------------------------
// Reminders
// --------------------------------------------------------------------------

// GetReminders returns the current reminder plan.
// @Summary Reminder plan
// @Tags reminders
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /reminders [get]
func (h *Handler) GetReminders(w http.ResponseWriter, r *http.Request) {
	reminders, at := h.sink.Reminders()
	if reminders == nil {
		reminders = []notifications.Reminder{}
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"planned_at": at,
		"count":      len(reminders),
		"reminders":  reminders,
	})
}

// GetRemindersICS exports the current reminder plan as iCalendar.
// @Summary Reminder plan as iCalendar
// @Tags reminders
// @Produce text/calendar
// @Success 200 {string} string
// @Failure 404 {object} respond.ErrorResponse
// @Router /reminders.ics [get]
func (h *Handler) GetRemindersICS(w http.ResponseWriter, r *http.Request) {
	reminders, _ := h.sink.Reminders()
	data, err := notifications.EncodeICS(reminders, time.Now())
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="waktu.ics"`)
	respond.WriteBytes(w, "text/calendar; charset=utf-8", data)
}

func queryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}
