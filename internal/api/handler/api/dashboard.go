// internal/api/handler/api/dashboard.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/response"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// Dashboard is the snapshot view the handler reads.
type Dashboard interface {
	Snapshot(ctx context.Context, symbol string) (*core.DashboardSnapshot, error)
	Symbols() []string
}

// DashboardHandler serves the assembled snapshot view.
type DashboardHandler struct {
	dash Dashboard
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dash Dashboard) *DashboardHandler {
	return &DashboardHandler{dash: dash}
}

// Get handles GET /api/dashboard?symbol=. Without a symbol it serves
// the first tracked one.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		tracked := h.dash.Symbols()
		if len(tracked) == 0 {
			response.Error(w, http.StatusNotFound,
				core.WrapError(core.ErrNotFound, fmt.Errorf("no tracked symbols")))
			return
		}
		symbol = tracked[0]
	}
	if !core.ValidSymbol(symbol) {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", symbol)))
		return
	}

	snap, err := h.dash.Snapshot(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			response.Error(w, http.StatusNotFound, err)
			return
		}
		response.Error(w, http.StatusBadGateway, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"snapshot": snap,
		"symbols":  h.dash.Symbols(),
	})
}
