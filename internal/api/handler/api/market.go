// internal/api/handler/api/market.go
package api

import (
	"fmt"
	"net/http"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/response"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// MarketHandler serves the intraday chart endpoint.
type MarketHandler struct {
	source Source
}

// NewMarketHandler creates a new market data handler.
func NewMarketHandler(source Source) *MarketHandler {
	return &MarketHandler{source: source}
}

// Get handles GET /api/market-data?symbol=.
func (h *MarketHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	data, err := h.source.MarketData(r.Context(), symbol)
	if err != nil {
		response.Error(w, http.StatusBadGateway, err)
		return
	}

	response.Raw(w, http.StatusOK, map[string]any{"data": data})
}
