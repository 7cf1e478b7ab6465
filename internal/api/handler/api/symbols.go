// internal/api/handler/api/symbols.go
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/response"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// SymbolInfo pairs a ticker with its asset class.
type SymbolInfo struct {
	Symbol string          `json:"symbol"`
	Type   core.SymbolType `json:"type"`
}

// SymbolsHandler lists the scannable symbol universes so the UI does
// not have to hardcode them.
type SymbolsHandler struct{}

// NewSymbolsHandler creates a new symbols handler.
func NewSymbolsHandler() *SymbolsHandler {
	return &SymbolsHandler{}
}

// universeNames in display order.
var universeNames = []string{"nasdaq", "crypto", "currency", "commodity"}

// List handles GET /api/symbols?universe=. Without a universe it
// returns all four groups.
func (h *SymbolsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}

	if name := r.URL.Query().Get("universe"); name != "" {
		symbols := core.Universe(name)
		if symbols == nil {
			response.Error(w, http.StatusNotFound,
				core.WrapError(core.ErrUniverseUnknown, fmt.Errorf("universe %q", name)))
			return
		}
		response.JSON(w, http.StatusOK, map[string]any{
			"universe": strings.ToLower(name),
			"symbols":  classify(symbols),
		})
		return
	}

	groups := make(map[string][]SymbolInfo, len(universeNames))
	for _, u := range universeNames {
		groups[u] = classify(core.Universe(u))
	}
	response.JSON(w, http.StatusOK, map[string]any{"universes": groups})
}

func classify(symbols []string) []SymbolInfo {
	out := make([]SymbolInfo, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, SymbolInfo{Symbol: s, Type: core.ClassifySymbol(s)})
	}
	return out
}
