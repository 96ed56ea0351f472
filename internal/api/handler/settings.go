package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/albapepper/waktu/internal/api/respond"
	"github.com/albapepper/waktu/internal/geo"
	"github.com/albapepper/waktu/internal/notifications"
	"github.com/albapepper/waktu/internal/prayer"
	"github.com/albapepper/waktu/internal/refresh"
)

// LocationRequest is the body of PUT /location.
type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

// TravelRequest is the body of PUT /travel. Omitted fields are unchanged.
type TravelRequest struct {
	Traveling *bool `json:"traveling"`
	Automatic *bool `json:"automatic"`
}

// PutLocation records the current location and refreshes when it moved.
// @Summary Set current location
// @Description Moves shorter than 500 m are ignored.
// @Tags location
// @Accept json
// @Produce json
// @Param body body LocationRequest true "Coordinate and optional label"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /location [put]
func (h *Handler) PutLocation(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	at := geo.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	if !at.IsSet() {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_COORDINATE", "latitude/longitude out of range")
		return
	}

	changed, err := h.orch.SetLocation(r.Context(), at, req.Label)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if changed {
		h.afterSettingsChange(r)
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"changed":  changed,
		"snapshot": h.orch.Snapshot(),
	})
}

// PutHome sets the home coordinate used for travel detection.
// @Summary Set home
// @Tags location
// @Accept json
// @Produce json
// @Param body body geo.Coordinate true "Home coordinate"
// @Success 200 {object} geo.Coordinate
// @Failure 400 {object} respond.ErrorResponse
// @Router /home [put]
func (h *Handler) PutHome(w http.ResponseWriter, r *http.Request) {
	var home geo.Coordinate
	if !decodeBody(w, r, &home) {
		return
	}
	if !home.IsSet() {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_COORDINATE", "latitude/longitude out of range")
		return
	}
	if err := h.orch.SetHome(r.Context(), &home); err != nil {
		h.writeError(w, err)
		return
	}
	h.afterSettingsChange(r)
	respond.WriteJSONObject(w, http.StatusOK, home)
}

// DeleteHome clears home; travel detection stops until it is set again.
// @Summary Clear home
// @Tags location
// @Success 204
// @Router /home [delete]
func (h *Handler) DeleteHome(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.SetHome(r.Context(), nil); err != nil {
		h.writeError(w, err)
		return
	}
	h.afterSettingsChange(r)
	w.WriteHeader(http.StatusNoContent)
}

// GetTravel returns the travel state.
// @Summary Travel state
// @Tags travel
// @Produce json
// @Success 200 {object} travel.State
// @Router /travel [get]
func (h *Handler) GetTravel(w http.ResponseWriter, r *http.Request) {
	st, err := h.orch.Settings().Load(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, st.Travel)
}

// PutTravel toggles travel mode by hand and/or switches automatic detection.
// @Summary Update travel mode
// @Tags travel
// @Accept json
// @Produce json
// @Param body body TravelRequest true "Fields to change"
// @Success 200 {object} travel.State
// @Router /travel [put]
func (h *Handler) PutTravel(w http.ResponseWriter, r *http.Request) {
	var req TravelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx := r.Context()
	if req.Automatic != nil {
		if err := h.orch.SetAutomatic(ctx, *req.Automatic); err != nil {
			h.writeError(w, err)
			return
		}
	}
	h.cache.Purge()
	if req.Traveling != nil {
		if _, err := h.orch.SetTraveling(ctx, *req.Traveling); err != nil && !isSoft(err) {
			h.writeError(w, err)
			return
		}
	}

	st, err := h.orch.Settings().Load(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, st.Travel)
}

// GetOffsets returns the per-prayer minute offsets.
// @Summary Prayer offsets
// @Tags settings
// @Produce json
// @Success 200 {object} prayer.Offsets
// @Router /settings/offsets [get]
func (h *Handler) GetOffsets(w http.ResponseWriter, r *http.Request) {
	st, err := h.orch.Settings().Load(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, st.Offsets)
}

// PutOffsets replaces the per-prayer minute offsets.
// @Summary Update prayer offsets
// @Description Every offset must lie within [-10, 10].
// @Tags settings
// @Accept json
// @Produce json
// @Param body body prayer.Offsets true "Offsets in minutes"
// @Success 200 {object} prayer.Offsets
// @Failure 422 {object} respond.ErrorResponse
// @Router /settings/offsets [put]
func (h *Handler) PutOffsets(w http.ResponseWriter, r *http.Request) {
	var o prayer.Offsets
	if !decodeBody(w, r, &o) {
		return
	}
	if err := h.orch.Settings().SaveOffsets(r.Context(), o); err != nil {
		h.writeError(w, err)
		return
	}
	h.afterSettingsChange(r)
	respond.WriteJSONObject(w, http.StatusOK, o)
}

// GetNotifications returns reminder preferences.
// @Summary Reminder preferences
// @Tags settings
// @Produce json
// @Success 200 {object} notifications.Preferences
// @Router /settings/notifications [get]
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	st, err := h.orch.Settings().Load(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, st.Notifications)
}

// PutNotifications replaces reminder preferences and re-plans.
// @Summary Update reminder preferences
// @Tags settings
// @Accept json
// @Produce json
// @Param body body notifications.Preferences true "Preferences"
// @Success 200 {object} notifications.Preferences
// @Failure 422 {object} respond.ErrorResponse
// @Router /settings/notifications [put]
func (h *Handler) PutNotifications(w http.ResponseWriter, r *http.Request) {
	p := notifications.DefaultPreferences()
	if !decodeBody(w, r, &p) {
		return
	}
	if err := h.orch.Settings().SaveNotifications(r.Context(), p); err != nil {
		h.writeError(w, err)
		return
	}
	h.afterSettingsChange(r)
	respond.WriteJSONObject(w, http.StatusOK, p)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON", err.Error())
		return false
	}
	return true
}

// isSoft reports refresh outcomes that still leave valid state behind.
func isSoft(err error) bool {
	return errors.Is(err, refresh.ErrNoLocation) ||
		errors.Is(err, refresh.ErrNoTimetable) ||
		errors.Is(err, refresh.ErrSuperseded)
}
