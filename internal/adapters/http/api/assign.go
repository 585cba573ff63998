package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/rosterbias/internal/adapters/dto"
)

// AssignHandler handles single-slot assignment requests.
type AssignHandler struct {
	deps Dependencies
}

// NewAssignHandler creates a new assign handler.
func NewAssignHandler(deps Dependencies) *AssignHandler {
	return &AssignHandler{deps: deps}
}

// HandlePostAssign handles POST /assign requests.
func (h *AssignHandler) HandlePostAssign(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_assign"
	if r.Method != http.MethodPost {
		writeFailure(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	var req dto.AssignRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.AssignOne(r.Context(), req)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
