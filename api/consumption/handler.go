package consumption

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/enertrack/meterd/core/logger"
	"github.com/enertrack/meterd/core/query"
)

// NewRecordsHandler returns an HTTP handler answering range queries via
// GET /v1/records?start_datetime=&end_datetime=.
func NewRecordsHandler(svc *query.Service, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		records, err := svc.Query(r.URL.Query().Get("start_datetime"), r.URL.Query().Get("end_datetime"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		respond(w, http.StatusOK, RecordsResponse{Records: ToDTO(records)})
	})
}

// NewStatsHandler returns an HTTP handler aggregating usage over a range via
// GET /v1/stats?start_datetime=&end_datetime=.
func NewStatsHandler(svc *query.Service, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		stats, err := svc.Stats(r.URL.Query().Get("start_datetime"), r.URL.Query().Get("end_datetime"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		respond(w, http.StatusOK, stats)
	})
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a query failure to its transport status: InvalidArgument
// becomes 400, everything else 500.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var qerr *query.Error
	if errors.As(err, &qerr) && qerr.Kind == query.KindInvalidArgument {
		respond(w, http.StatusBadRequest, ErrorResponse{Error: qerr.Kind.String(), Message: qerr.Message, Param: qerr.Param})
		return
	}
	log.Errorf("query failed: %v", err)
	respond(w, http.StatusInternalServerError, ErrorResponse{Error: query.KindInternal.String(), Message: "internal server error"})
}
