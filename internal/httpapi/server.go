package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"streamdvr/internal/manager"
	"streamdvr/internal/probe"
	"streamdvr/internal/registry"
	"streamdvr/internal/settings"
	"streamdvr/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Status() types.StatusResponse
	Ready() bool
	ListStreamers() []registry.Entry
	AddStreamer(e registry.Entry) (registry.Entry, error)
	RemoveStreamer(name string) error
	StopCapture(name string) error
	TriggerManualRecording(ctx context.Context, name string) error
	ListQualities(ctx context.Context, name string) (probe.QualityList, error)
	GetConfig() settings.GlobalConfig
	SetConfig(p settings.Patch) (settings.GlobalConfig, error)
	OpenOutputLocation() error
	OpenFile(rel string) error
	ListRecordings() ([]types.Recording, error)
	Events() []manager.Event
}

var okResponse = types.OKResponse{Status: "success"}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, access log, recoverer, metrics
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc}
	r.Group(func(r chi.Router) {
		r.Use(inflightMiddleware)

		r.Get("/status", h.status)

		r.Route("/streamers", func(r chi.Router) {
			r.Get("/", h.listStreamers)
			r.Post("/", h.addStreamer)
			r.Delete("/{name}", h.removeStreamer)
			r.Post("/{name}/stop", h.stopCapture)
			r.Post("/{name}/record", h.triggerRecording)
			r.Get("/{name}/qualities", h.qualities)
		})

		r.Get("/config", h.getConfig)
		r.Patch("/config", h.setConfig)

		r.Post("/open/folder", h.openFolder)
		r.Post("/open/file", h.openFile)

		r.Get("/recordings", h.recordings)
		r.Get("/events", h.events)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("starting"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

// decodeJSON enforces the JSON content type and body size limit. It writes
// the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// @Summary      Status snapshot
// @Description  Per-streamer state, label, capture and awaiting flag.
// @Tags         status
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// @Summary  List streamers
// @Tags     streamers
// @Produce  json
// @Success  200  {object}  types.StreamersResponse
// @Router   /streamers [get]
func (h *handlers) listStreamers(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.ListStreamers()
	resp := types.StreamersResponse{Streamers: make([]types.Streamer, 0, len(entries))}
	for _, e := range entries {
		resp.Streamers = append(resp.Streamers, toStreamer(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary  Add or update a streamer
// @Tags     streamers
// @Accept   json
// @Produce  json
// @Param    body  body      types.AddStreamerRequest  true  "streamer"
// @Success  201   {object}  types.Streamer
// @Failure  400   {object}  types.ErrorResponse
// @Router   /streamers [post]
func (h *handlers) addStreamer(w http.ResponseWriter, r *http.Request) {
	var req types.AddStreamerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.svc.AddStreamer(registry.Entry{Name: req.Name, Quality: req.Quality, Format: req.Format, Manual: req.Manual})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStreamer(e))
}

// @Summary  Remove a streamer and terminate its capture
// @Tags     streamers
// @Produce  json
// @Param    name  path      string  true  "streamer"
// @Success  200   {object}  types.OKResponse
// @Failure  404   {object}  types.ErrorResponse
// @Router   /streamers/{name} [delete]
func (h *handlers) removeStreamer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveStreamer(chi.URLParam(r, "name")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

// @Summary  Stop the active capture
// @Tags     streamers
// @Produce  json
// @Param    name  path      string  true  "streamer"
// @Success  200   {object}  types.OKResponse
// @Failure  404   {object}  types.ErrorResponse
// @Failure  409   {object}  types.ErrorResponse
// @Router   /streamers/{name}/stop [post]
func (h *handlers) stopCapture(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.StopCapture(chi.URLParam(r, "name")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

// @Summary  Confirm a streamer waiting behind the manual gate
// @Tags     streamers
// @Produce  json
// @Param    name  path      string  true  "streamer"
// @Success  200   {object}  types.OKResponse
// @Failure  404   {object}  types.ErrorResponse
// @Failure  409   {object}  types.ErrorResponse
// @Failure  502   {object}  types.ErrorResponse
// @Router   /streamers/{name}/record [post]
func (h *handlers) triggerRecording(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if err := h.svc.TriggerManualRecording(ctx, chi.URLParam(r, "name")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

// @Summary      Ranked qualities of a live stream
// @Description  status is online, offline or error; errors from the tool are reported in message.
// @Tags         streamers
// @Produce      json
// @Param        name  path      string  true  "streamer"
// @Success      200   {object}  types.QualitiesResponse
// @Failure      400   {object}  types.ErrorResponse
// @Router       /streamers/{name}/qualities [get]
func (h *handlers) qualities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	ql, err := h.svc.ListQualities(ctx, chi.URLParam(r, "name"))
	if err != nil {
		var pe *probe.Error
		if errors.As(err, &pe) {
			writeJSON(w, http.StatusOK, types.QualitiesResponse{Status: "error", Message: pe.Msg})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.QualitiesResponse{Status: string(ql.Status), Qualities: ql.Qualities})
}

// @Summary  Global settings
// @Tags     config
// @Produce  json
// @Success  200  {object}  types.Settings
// @Router   /config [get]
func (h *handlers) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSettings(h.svc.GetConfig()))
}

// @Summary  Partially update global settings
// @Tags     config
// @Accept   json
// @Produce  json
// @Param    body  body      types.SettingsPatch  true  "fields to change"
// @Success  200   {object}  types.Settings
// @Failure  400   {object}  types.ErrorResponse
// @Router   /config [patch]
func (h *handlers) setConfig(w http.ResponseWriter, r *http.Request) {
	var req types.SettingsPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := h.svc.SetConfig(toPatch(req))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettings(g))
}

// @Summary  Open the output directory
// @Tags     files
// @Produce  json
// @Success  200  {object}  types.OKResponse
// @Router   /open/folder [post]
func (h *handlers) openFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.OpenOutputLocation(); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

// @Summary  Open a recording
// @Tags     files
// @Accept   json
// @Produce  json
// @Param    body  body      types.OpenFileRequest  true  "file relative to the output directory"
// @Success  200   {object}  types.OKResponse
// @Failure  400   {object}  types.ErrorResponse
// @Failure  404   {object}  types.ErrorResponse
// @Router   /open/file [post]
func (h *handlers) openFile(w http.ResponseWriter, r *http.Request) {
	var req types.OpenFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.OpenFile(req.Filename); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

// @Summary  Recordings under the output directory, newest first
// @Tags     files
// @Produce  json
// @Success  200  {object}  types.RecordingsResponse
// @Router   /recordings [get]
func (h *handlers) recordings(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListRecordings()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.RecordingsResponse{Recordings: recs})
}

// @Summary  Recent supervisor events
// @Tags     status
// @Produce  json
// @Success  200  {object}  types.EventsResponse
// @Router   /events [get]
func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.EventsResponse{Events: toEvents(h.svc.Events())})
}
