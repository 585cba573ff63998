package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/rosterbias/internal/adapters/dto"
)

// SolveHandler handles team solve requests.
type SolveHandler struct {
	deps Dependencies
}

// NewSolveHandler creates a new solve handler.
func NewSolveHandler(deps Dependencies) *SolveHandler {
	return &SolveHandler{deps: deps}
}

// HandlePostSolve handles POST /solve requests. The body may be JSON or YAML.
func (h *SolveHandler) HandlePostSolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_solve"
	if r.Method != http.MethodPost {
		writeFailure(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	req, err := dto.DecodeSolveRequest(body)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if len(req.Slots) == 0 {
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("missing slots")))
		return
	}
	res, err := h.deps.Solve(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleGetSolve handles GET /solves/{id} requests.
func (h *SolveHandler) HandleGetSolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_solve"
	if r.Method != http.MethodGet {
		writeFailure(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/solves/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("missing solve id")))
		return
	}
	res, err := h.deps.Result(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrPayloadTooLarge
		}
		return nil, errors.Join(ErrBadRequest, err)
	}
	return body, nil
}
