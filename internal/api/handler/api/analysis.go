// internal/api/handler/api/analysis.go
package api

import (
	"fmt"
	"net/http"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/response"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// AnalysisHandler serves the six-criteria pullback evaluation.
type AnalysisHandler struct {
	source Source
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(source Source) *AnalysisHandler {
	return &AnalysisHandler{source: source}
}

// Get handles GET /api/pullback-analysis/{symbol}.
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request, symbol string) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}

	if !core.ValidSymbol(symbol) {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", symbol)))
		return
	}

	analysis, err := h.source.PullbackAnalysis(r.Context(), symbol)
	if err != nil {
		response.Error(w, http.StatusBadGateway, err)
		return
	}

	response.Raw(w, http.StatusOK, map[string]any{
		"analysis": analysis,
		"success":  true,
	})
}
