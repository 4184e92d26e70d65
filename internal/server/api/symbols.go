package api

import (
	"net/http"

	"github.com/ayusman/fingersign/internal/gesture"
)

// SymbolsHandler serves the symbol table.
type SymbolsHandler struct {
	table *gesture.SymbolTable
}

// NewSymbolsHandler creates a new SymbolsHandler for the given table.
func NewSymbolsHandler(table *gesture.SymbolTable) *SymbolsHandler {
	return &SymbolsHandler{table: table}
}

type symbolsResponse struct {
	Symbols []gesture.Symbol `json:"symbols"`
	Unknown string           `json:"unknown"`
}

// ServeHTTP handles GET /api/symbols.
func (h *SymbolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, symbolsResponse{
		Symbols: h.table.Entries(),
		Unknown: gesture.Unknown,
	})
}
