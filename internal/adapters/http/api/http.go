// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/rosterbias/internal/adapters/dto"
	"github.com/okian/rosterbias/internal/adapters/repository"
	"github.com/okian/rosterbias/internal/domain/selector"
	"github.com/okian/rosterbias/internal/domain/solver"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Solve runs a team solve and stores its result.
	Solve(ctx context.Context, req dto.SolveRequest) (dto.SolveResponse, error)

	// Result returns a stored solve. Unknown ids wrap repository.ErrNotFound.
	Result(ctx context.Context, id string) (dto.SolveResponse, error)

	// AssignOne picks a background for a single slot.
	AssignOne(ctx context.Context, req dto.AssignRequest) (dto.AssignResponse, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	solveHandler  *SolveHandler
	assignHandler *AssignHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		solveHandler:  NewSolveHandler(deps),
		assignHandler: NewAssignHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/solve", MetricsMiddleware(s.solveHandler.HandlePostSolve, "solve"))
	mux.HandleFunc("/solves/", MetricsMiddleware(s.solveHandler.HandleGetSolve, "solves"))
	mux.HandleFunc("/assign", MetricsMiddleware(s.assignHandler.HandlePostAssign, "assign"))
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

// writeFailure maps upstream error kinds to a status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", err)
	case errors.Is(err, ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, selector.ErrNoFeasibleBackground):
		writeError(w, http.StatusUnprocessableEntity, "no_feasible_background", err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, dto.ErrInvalidPayload),
		errors.Is(err, dto.ErrUnknownRef),
		errors.Is(err, solver.ErrInvalidRequest),
		errors.Is(err, solver.ErrEmptyTeam):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
