// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kelsall/accolade/internal/app"
	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/ledger"
	"github.com/kelsall/accolade/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Evaluate runs one trigger and returns the award ids granted.
	Evaluate(ctx context.Context, trig model.Trigger) []award.ID

	// SeenDelivery atomically checks and records a trigger delivery id.
	SeenDelivery(ctx context.Context, deliveryID string) bool

	// Sweep runs the bulk re-evaluation over recently-active members.
	Sweep(ctx context.Context) (app.SweepResult, error)

	// Read operations behind the awards endpoint.
	GrantsFor(ctx context.Context, personID string) ([]ledger.Grant, error)
	CurrentStreak(ctx context.Context, personID string) (int, error)
}

// Server wires HTTP routes for the award engine API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	triggersHandler *TriggersHandler
	awardsHandler   *AwardsHandler
	sweepHandler    *SweepHandler
}

// NewServer creates a new API server with all handlers. sweepToken guards
// POST /sweep; empty disables the endpoint.
func NewServer(deps Dependencies, statsProvider StatsProvider, sweepToken string) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		triggersHandler: NewTriggersHandler(deps),
		awardsHandler:   NewAwardsHandler(deps),
		sweepHandler:    NewSweepHandler(deps, sweepToken),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/triggers", MetricsMiddleware(s.triggersHandler.HandlePostTrigger, "triggers"))
	mux.HandleFunc("/awards", MetricsMiddleware(s.awardsHandler.HandleGetAwards, "awards"))
	mux.HandleFunc("/sweep", MetricsMiddleware(s.sweepHandler.HandlePostSweep, "sweep"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
