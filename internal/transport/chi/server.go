// Package chi exposes the registry over a small JSON HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/minewatch/internal/domain"
	"github.com/kailas-cloud/minewatch/internal/usecase/registry"
	"github.com/kailas-cloud/minewatch/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements the HTTP handlers for the usage API.
type Server struct {
	registry      *registry.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(reg *registry.Service, logger *zap.Logger) *Server {
	s := &Server{
		registry: reg,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		limitExceededHandler,
		sentinelHandler(domain.ErrUnknownSite, http.StatusNotFound, "unknown_site"),
		sentinelHandler(domain.ErrInvalidRecord, http.StatusBadRequest, "validation_failed"),
	}
	return s
}

// Register mounts the API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Route("/api/v1/sites", func(r chi.Router) {
		r.Get("/", s.listSites)
		r.Route("/{site}", func(r chi.Router) {
			r.Get("/usage", s.getUsage)
			r.Post("/usage", s.recordUsage)
		})
	})
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metrics)
}

// --- Wire types ---

type errorResponse struct {
	Code              string   `json:"code"`
	Message           string   `json:"message"`
	RemainingAcreFeet *float64 `json:"remaining_acre_feet,omitempty"`
}

type recordUsageRequest struct {
	Date          string  `json:"date"`
	WaterAcreFeet float64 `json:"water_acre_feet"`
	LandAcres     float64 `json:"land_acres"`
}

type usageRecordView struct {
	Date          string  `json:"date"`
	WaterAcreFeet float64 `json:"water_acre_feet"`
	LandAcres     float64 `json:"land_acres"`
}

type confirmationResponse struct {
	Site              string          `json:"site"`
	Record            usageRecordView `json:"record"`
	TotalUsedAcreFeet float64         `json:"total_used_acre_feet"`
	RemainingAcreFeet float64         `json:"remaining_acre_feet"`
}

type reportResponse struct {
	Site               string            `json:"site"`
	WaterLimitAcreFeet float64           `json:"water_limit_acre_feet"`
	TotalUsedAcreFeet  float64           `json:"total_used_acre_feet"`
	RemainingAcreFeet  float64           `json:"remaining_acre_feet"`
	Records            []usageRecordView `json:"records"`
	Summary            string            `json:"summary"`
}

type siteStatusView struct {
	Site               string  `json:"site"`
	WaterLimitAcreFeet float64 `json:"water_limit_acre_feet"`
	TotalUsedAcreFeet  float64 `json:"total_used_acre_feet"`
	RemainingAcreFeet  float64 `json:"remaining_acre_feet"`
	Records            int     `json:"records"`
}

type siteListResponse struct {
	Items []siteStatusView `json:"items"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// --- Handlers ---

// listSites handles GET /api/v1/sites.
func (s *Server) listSites(w http.ResponseWriter, r *http.Request) {
	statuses := s.registry.Sites(r.Context())

	items := make([]siteStatusView, len(statuses))
	for i, st := range statuses {
		items[i] = siteStatusView{
			Site:               st.Site,
			WaterLimitAcreFeet: st.WaterLimit,
			TotalUsedAcreFeet:  st.TotalUsed,
			RemainingAcreFeet:  st.Remaining,
			Records:            st.Records,
		}
	}
	writeJSON(w, http.StatusOK, siteListResponse{Items: items})
}

// getUsage handles GET /api/v1/sites/{site}/usage.
func (s *Server) getUsage(w http.ResponseWriter, r *http.Request) {
	siteName := chi.URLParam(r, "site")

	report, err := s.registry.Report(r.Context(), siteName)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	records := make([]usageRecordView, len(report.Records))
	for i := range report.Records {
		rec := &report.Records[i]
		records[i] = usageRecordView{
			Date:          rec.Date(),
			WaterAcreFeet: rec.Water(),
			LandAcres:     rec.Land(),
		}
	}

	writeJSON(w, http.StatusOK, reportResponse{
		Site:               report.Site,
		WaterLimitAcreFeet: report.WaterLimit,
		TotalUsedAcreFeet:  report.TotalUsed,
		RemainingAcreFeet:  report.Remaining,
		Records:            records,
		Summary:            report.Summary(),
	})
}

// recordUsage handles POST /api/v1/sites/{site}/usage.
func (s *Server) recordUsage(w http.ResponseWriter, r *http.Request) {
	siteName := chi.URLParam(r, "site")

	var req recordUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	conf, err := s.registry.RecordUsage(r.Context(), siteName, req.WaterAcreFeet, req.LandAcres, req.Date)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, confirmationResponse{
		Site: conf.Site,
		Record: usageRecordView{
			Date:          conf.Record.Date(),
			WaterAcreFeet: conf.Record.Water(),
			LandAcres:     conf.Record.Land(),
		},
		TotalUsedAcreFeet: conf.TotalUsed,
		RemainingAcreFeet: conf.Remaining,
	})
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: version.Version})
}

// metrics handles GET /metrics.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- Error mapping ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownSite,
		domain.ErrLimitExceeded,
		domain.ErrInvalidRecord,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// limitExceededHandler handles ErrLimitExceeded with the remaining allowance in the body.
func limitExceededHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrLimitExceeded) {
		return false
	}
	var lee *domain.LimitExceededError
	if errors.As(err, &lee) {
		remaining := lee.Remaining
		writeJSON(w, http.StatusConflict, errorResponse{
			Code:              "limit_exceeded",
			Message:           msg,
			RemainingAcreFeet: &remaining,
		})
		return true
	}
	writeError(w, http.StatusConflict, "limit_exceeded", msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
