package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"multistream/internal/grid"
	"multistream/internal/platform/logger"
	"multistream/internal/platform/metrics"
	"multistream/internal/settings"
)

const eventStreamHeartbeat = 30 * time.Second

// Handler exposes the view to the presentation layer using go-chi.
type Handler struct {
	ctrl    *Controller
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler for ctrl. A nil log discards output and a
// nil m disables metric recording (e.g. in tests).
func NewHandler(ctrl *Controller, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{ctrl: ctrl, log: logger.OrDiscard(log), metrics: m}
}

// Routes registers the API, the event feed and the page on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/view", h.GetView)
		r.Get("/events", h.Events)
		r.Post("/rotate", h.Rotate)
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
			r.Post("/open", h.OpenSettings)
			r.Post("/close", h.CloseSettings)
		})
	})
	r.Get("/*", h.Page)
}

// GetView handles GET /api/view.
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.View())
}

// Rotate handles POST /api/rotate.
func (h *Handler) Rotate(w http.ResponseWriter, r *http.Request) {
	h.ctrl.Rotate()
	writeJSON(w, http.StatusOK, h.ctrl.View())
}

// OpenSettings handles POST /api/settings/open.
func (h *Handler) OpenSettings(w http.ResponseWriter, r *http.Request) {
	h.ctrl.OpenSettings()
	w.WriteHeader(http.StatusNoContent)
}

// CloseSettings handles POST /api/settings/close.
func (h *Handler) CloseSettings(w http.ResponseWriter, r *http.Request) {
	h.ctrl.CloseSettings()
	w.WriteHeader(http.StatusNoContent)
}

type settingsResponse struct {
	Orientation     grid.Orientation `json:"orientation"`
	IgnoreList      string           `json:"ignoreList"`
	NumberOfColumns int              `json:"numberOfColumns"`
}

// columnCount accepts either a JSON number or a JSON string so edit forms
// can forward raw input.
type columnCount string

func (c *columnCount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = columnCount(s)
		return nil
	}
	*c = columnCount(strings.TrimSpace(string(b)))
	return nil
}

type settingsRequest struct {
	Orientation     *string      `json:"orientation"`
	IgnoreList      *string      `json:"ignoreList"`
	NumberOfColumns *columnCount `json:"numberOfColumns"`
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.currentSettings())
}

// UpdateSettings handles PUT /api/settings.
// Body: { "orientation": "vertical", "ignoreList": "a,b", "numberOfColumns": "3" }.
// Every field is optional. The request is validated as a whole; on error
// nothing is changed.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid settings body", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Orientation != nil {
		if _, err := grid.ParseOrientation(*req.Orientation); err != nil {
			writeError(w, http.StatusBadRequest, settings.ErrInvalidOrientation.Error())
			return
		}
	}
	if req.NumberOfColumns != nil {
		if _, err := settings.ParseColumnCount(string(*req.NumberOfColumns)); err != nil {
			writeError(w, http.StatusBadRequest, settings.ErrInvalidColumnCount.Error())
			return
		}
	}

	var errs []error
	if req.Orientation != nil {
		errs = append(errs, h.ctrl.UpdateOrientation(*req.Orientation))
	}
	if req.IgnoreList != nil {
		errs = append(errs, h.ctrl.UpdateIgnoreList(*req.IgnoreList))
	}
	if req.NumberOfColumns != nil {
		errs = append(errs, h.ctrl.UpdateColumnCount(string(*req.NumberOfColumns)))
	}
	if err := errors.Join(errs...); err != nil {
		h.log.Error("save settings failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not save settings")
		return
	}

	h.log.Info("settings updated",
		slog.String("orientation", string(h.ctrl.settings.Orientation())),
		slog.String("ignore_list", h.ctrl.settings.IgnoreList()),
		slog.Int("number_of_columns", h.ctrl.settings.NumberOfColumns()))
	writeJSON(w, http.StatusOK, h.currentSettings())
}

func (h *Handler) currentSettings() settingsResponse {
	s := h.ctrl.settings
	return settingsResponse{
		Orientation:     s.Orientation(),
		IgnoreList:      s.IgnoreList(),
		NumberOfColumns: s.NumberOfColumns(),
	}
}

// Events handles GET /api/events: a server-sent event stream with one
// "view" event for the current view and one per change after it.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// Holds at most the latest view; a slow client skips intermediate ones.
	updates := make(chan View, 1)
	unsubscribe := h.ctrl.Subscribe(func(v View) {
		select {
		case updates <- v:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- v
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, h.ctrl.View()); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(eventStreamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case v := <-updates:
			if err := writeEvent(w, v); err != nil {
				h.log.Debug("event stream write failed", slog.String("error", err.Error()))
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		flusher.Flush()
	}
}

// Page handles GET /*. A request for a non-root path seeds the channel set
// from that path, the way opening the address did in a browser session;
// the root path shows the current set. Paths that look like file requests
// get a 404 and leave the set alone.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		if !IsChannelPath(r.URL.EscapedPath()) {
			http.NotFound(w, r)
			return
		}
		h.ctrl.Load(r.URL.EscapedPath())
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{View: h.ctrl.View(), Settings: h.currentSettings()}); err != nil {
		h.log.Error("render page failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeEvent(w http.ResponseWriter, v View) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: view\ndata: %s\n\n", data)
	return err
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
