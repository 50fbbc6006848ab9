package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/daterange"
)

type DateRangeHandler interface {
	Resolve(w http.ResponseWriter, r *http.Request)
	Presets(w http.ResponseWriter, r *http.Request)
}

type dateRangeHandlerImpl struct {
	clock       clock.Clock
	allowFuture bool
}

func NewDateRangeHandler(clk clock.Clock, allowFuture bool) DateRangeHandler {
	return &dateRangeHandlerImpl{
		clock:       clk,
		allowFuture: allowFuture,
	}
}

type ResolvedRangeResponse struct {
	Preset    daterange.Preset `json:"preset"`
	Label     string           `json:"label"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
}

type PresetResponse struct {
	Value daterange.Preset `json:"value"`
	Label string           `json:"label"`
}

// Resolve handles GET /date-ranges/resolve
func (h *dateRangeHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	preset := daterange.Preset(q.Get("preset"))
	if preset == "" {
		preset = daterange.PresetMonth
	}

	now := h.clock.Now()
	if ref := q.Get("reference"); ref != "" {
		t, err := time.ParseInLocation(daterange.DateLayout, ref, now.Location())
		if err != nil {
			response.BadRequest(w, "invalid reference parameter", nil)
			return
		}
		now = t
	}

	var custom *daterange.Bounds
	if preset == daterange.PresetCustom && (q.Get("start_date") != "" || q.Get("end_date") != "") {
		b, err := daterange.DateRange{StartDate: q.Get("start_date"), EndDate: q.Get("end_date")}.Bounds(now.Location())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		custom = &b
	}

	rng, err := daterange.Resolve(preset, custom, now, h.allowFuture)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, ResolvedRangeResponse{
		Preset:    preset,
		Label:     preset.Label(),
		StartDate: rng.StartDate,
		EndDate:   rng.EndDate,
	})
}

// Presets handles GET /date-ranges/presets
func (h *dateRangeHandlerImpl) Presets(w http.ResponseWriter, r *http.Request) {
	presets := make([]PresetResponse, 0, len(daterange.Presets))
	for _, p := range daterange.Presets {
		presets = append(presets, PresetResponse{Value: p, Label: p.Label()})
	}
	response.Success(w, presets)
}
