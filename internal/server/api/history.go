package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ayusman/fingersign/internal/store"
)

// DefaultHistoryLimit is the number of recognitions returned when the
// request does not set a limit.
const DefaultHistoryLimit = 50

// HistoryHandler serves the recognition history of a session.
type HistoryHandler struct {
	store     *store.Store
	sessionID string
}

// NewHistoryHandler creates a new HistoryHandler. sessionID is the session
// reported when the request does not name one.
func NewHistoryHandler(s *store.Store, sessionID string) *HistoryHandler {
	return &HistoryHandler{store: s, sessionID: sessionID}
}

type historyResponse struct {
	Session      *store.Session      `json:"session"`
	Recognitions []store.Recognition `json:"recognitions"`
	Counts       map[string]int      `json:"counts"`
}

// ServeHTTP handles GET /api/history?session={id}&limit={n}.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	sessionID := query.Get("session")
	if sessionID == "" {
		sessionID = h.sessionID
	}
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "Session is required")
		return
	}

	limit := DefaultHistoryLimit
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sess, err := h.store.Sessions().GetByID(sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	recs, err := h.store.Recognitions().ListBySession(sessionID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list recognitions")
		return
	}

	counts, err := h.store.Recognitions().CountByLabel(sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count recognitions")
		return
	}

	if recs == nil {
		recs = []store.Recognition{}
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Session:      sess,
		Recognitions: recs,
		Counts:       counts,
	})
}
