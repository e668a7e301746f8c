package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/enertrack/meterd/api/consumption"
	"github.com/enertrack/meterd/core/logger"
	"github.com/enertrack/meterd/core/query"
)

// ConsumptionResponse is the public API response shape.
type ConsumptionResponse struct {
	Records    []consumption.RecordDTO `json:"records"`
	TotalCount int                     `json:"total_count"`
}

// Handler serves the public consumption API backed by the data service.
type Handler struct {
	client DataClient
	log    logger.Logger
}

// NewHandler creates a gateway Handler using the given data service client.
func NewHandler(client DataClient, log logger.Logger) *Handler {
	return &Handler{client: client, log: log}
}

// HandleConsumption answers GET /api/consumption. Bounds are validated
// locally before the data service is consulted, mirroring the validation the
// data service performs itself.
func (h *Handler) HandleConsumption(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_datetime")
	end := r.URL.Query().Get("end_datetime")
	if qerr := query.ValidateBounds(start, end); qerr != nil {
		respond(w, http.StatusBadRequest, consumption.ErrorResponse{Error: qerr.Kind.String(), Message: qerr.Message, Param: qerr.Param})
		return
	}
	records, err := h.client.Records(r.Context(), start, end)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	if records == nil {
		records = []consumption.RecordDTO{}
	}
	respond(w, http.StatusOK, ConsumptionResponse{Records: records, TotalCount: len(records)})
}

// HandleStats answers GET /api/consumption/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_datetime")
	end := r.URL.Query().Get("end_datetime")
	if qerr := query.ValidateBounds(start, end); qerr != nil {
		respond(w, http.StatusBadRequest, consumption.ErrorResponse{Error: qerr.Kind.String(), Message: qerr.Message, Param: qerr.Param})
		return
	}
	stats, err := h.client.Stats(r.Context(), start, end)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	respond(w, http.StatusOK, stats)
}

// HandleRoot answers GET / with API information.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"message": "Electricity Consumption API",
		"endpoints": map[string]string{
			"consumption": "/api/consumption",
			"stats":       "/api/consumption/stats",
			"frontend":    "/static/index.html",
		},
	})
}

// HandleHealth answers GET /health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "healthy", "service": "consumption-gateway"})
}

// writeUpstreamError maps a data service failure onto the public API:
// client errors pass through, everything else becomes 502.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, err error) {
	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		if uerr.Status == http.StatusBadRequest {
			respond(w, http.StatusBadRequest, uerr.Body)
			return
		}
		h.log.Errorf("data service error: %v", err)
		respond(w, http.StatusBadGateway, consumption.ErrorResponse{Error: "upstream", Message: "data service error"})
		return
	}
	h.log.Errorf("data service unreachable: %v", err)
	respond(w, http.StatusBadGateway, consumption.ErrorResponse{Error: "upstream", Message: "data service unavailable"})
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// NewRouter assembles the public API router. staticDir, when non-empty, is
// served under /static/ for the frontend.
func NewRouter(h *Handler, staticDir string, log logger.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(CORSMiddleware)
	router.Use(RequestIDMiddleware)
	router.Use(AccessLogMiddleware(log))

	router.HandleFunc("/api/consumption", h.HandleConsumption).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/consumption/stats", h.HandleStats).Methods("GET", "OPTIONS")
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	router.HandleFunc("/", h.HandleRoot).Methods("GET")

	if staticDir != "" {
		fileServer := http.FileServer(http.Dir(staticDir))
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fileServer))
	}
	return router
}
