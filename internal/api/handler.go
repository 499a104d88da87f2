package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/czaloom/mental-health-iot-example/internal/alerts"
	"github.com/czaloom/mental-health-iot-example/internal/csvsource"
	"github.com/czaloom/mental-health-iot-example/internal/ingest"
	"github.com/czaloom/mental-health-iot-example/internal/store"
	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	store     store.Interface
	service   *alerts.Service
	engine    *alerts.Engine
	threshold int
	mux       *http.ServeMux
}

// New creates a Handler wired to the record store and registers all routes.
// engine may be nil when no notification rules are configured.
func New(st store.Interface, svc *alerts.Service, engine *alerts.Engine, threshold int) http.Handler {
	h := &Handler{store: st, service: svc, engine: engine, threshold: threshold, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/ingest", h.ingest)
	h.mux.HandleFunc("/api/v1/alerts", h.alerts)
	h.mux.HandleFunc("/api/v1/health", h.health)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// ingest handles POST /api/v1/ingest — scans a CSV source and stores every
// high-stress row.
func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Filepath == "" {
		jsonErr(w, http.StatusBadRequest, "filepath is required")
		return
	}
	if req.AlertLevel < 0 || req.AlertLevel > 100 {
		jsonErr(w, http.StatusBadRequest, "alert_level must be in [0, 100]")
		return
	}
	threshold := h.threshold
	if req.AlertLevel > 0 {
		threshold = req.AlertLevel
	}

	src, err := csvsource.Open(req.Filepath)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	defer src.Close()

	p := ingest.New(h.store, threshold)
	if h.engine != nil {
		p.Notify = h.engine.Evaluate
	}

	sum, err := p.Run(r.Context(), src)
	if err != nil {
		slog.Error("api: ingest run failed", "filepath", req.Filepath, "err", err)
		if types.IsStorage(err) {
			jsonErr(w, http.StatusBadGateway, err.Error())
		} else {
			jsonErr(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	jsonResp(w, http.StatusOK, IngestResponse{
		Scanned:       sum.TotalSeen,
		HighStress:    sum.HighStressStored,
		ParseFailures: sum.ParseFailures,
	})
}

// alerts handles GET /api/v1/alerts — the most recent high-stress records.
func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q, err := alertQuery(r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.service.Alerts(r.Context(), q)
	if err != nil {
		if types.IsValidation(err) {
			jsonErr(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("api: alert query failed", "err", err)
		jsonErr(w, http.StatusBadGateway, err.Error())
		return
	}

	jsonResp(w, http.StatusOK, BuildAlerts(records))
}

// health handles GET /api/v1/health — store reachability and record count.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	n, err := h.store.Count(r.Context())
	if err != nil {
		jsonResp(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok", RecordCount: n})
}

// alertQuery parses the alert retrieval query parameters. Absent parameters
// stay zero — the alert service fills in its defaults.
func alertQuery(r *http.Request) (types.AlertQuery, error) {
	var q types.AlertQuery
	params := r.URL.Query()

	if s := params.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, errors.New("limit must be an integer")
		}
		if n <= 0 {
			return q, types.Validationf("limit", "must be a positive integer, got %d", n)
		}
		q.Limit = n
	}
	if s := params.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, errors.New("offset must be a non-negative integer")
		}
		q.Offset = n
	}
	q.OrderBy = params.Get("order_by")
	q.Direction = params.Get("direction")
	return q, nil
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: encode response", "err", err)
	}
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
