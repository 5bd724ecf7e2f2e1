package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/kelsall/accolade/pkg/logger"
)

const sweepTokenHeader = "X-Sweep-Token"

// SweepHandler triggers the bulk re-evaluation over active members.
type SweepHandler struct {
	deps   Dependencies
	token  string
	logger logger.Logger
}

// NewSweepHandler creates a handler for POST /sweep. An empty token
// disables the endpoint entirely.
func NewSweepHandler(deps Dependencies, token string) *SweepHandler {
	return &SweepHandler{
		deps:   deps,
		token:  token,
		logger: logger.Named("api"),
	}
}

// HandlePostSweep handles POST /sweep. The sweep runs synchronously; the
// cron caller is expected to tolerate a long response.
func (h *SweepHandler) HandlePostSweep(w http.ResponseWriter, r *http.Request) {
	const op = "api.HandlePostSweep"

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", wrap(op, ErrMethodNotAllowed))
		return
	}
	if h.token == "" {
		writeError(w, http.StatusNotFound, "not_found", wrap(op, ErrUnauthorized))
		return
	}
	got := r.Header.Get(sweepTokenHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
		writeError(w, http.StatusUnauthorized, "unauthorized", wrap(op, ErrUnauthorized))
		return
	}

	result, err := h.deps.Sweep(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "sweep failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
