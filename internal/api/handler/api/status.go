// internal/api/handler/api/status.go
package api

import (
	"fmt"
	"net/http"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/response"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// StatusHandler serves the compact per-symbol indicator panel.
type StatusHandler struct {
	source Source
}

// NewStatusHandler creates a new strategy status handler.
func NewStatusHandler(source Source) *StatusHandler {
	return &StatusHandler{source: source}
}

// Get handles GET /api/strategy-status?symbol=.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = defaultSymbol
	}
	if !core.ValidSymbol(symbol) {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", symbol)))
		return
	}

	status, err := h.source.StrategyStatus(r.Context(), symbol)
	if err != nil {
		response.Error(w, http.StatusBadGateway, err)
		return
	}

	response.Raw(w, http.StatusOK, map[string]any{"status": status})
}
