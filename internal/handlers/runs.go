package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	imports "planner_import/internal/repository/imports"
)

// ListRuns returns the import run audit trail, newest first. Supports
// ?status=, ?limit= and ?skip=.
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "use GET"})
		return
	}

	filter := bson.M{}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		filter["status"] = status
	}

	limit := int64(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	skip := int64(0)
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			skip = n
		}
	}

	recs, total, err := imports.ListRunRecords(r.Context(), h.Mongo, filter, limit, skip)
	if err != nil {
		h.Logger.Printf("[RUNS][ERR] list: %v", err)
		h.JSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{"items": recs, "total": total})
}

// GetRun returns one run record by id (path /imports/{id}).
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "use GET"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/imports/")
	if id == "" || strings.Contains(id, "/") {
		h.JSON(w, http.StatusBadRequest, map[string]any{"error": "run id is required"})
		return
	}

	rec, err := imports.FindRunRecordByID(r.Context(), h.Mongo, id)
	if err != nil {
		h.JSON(w, http.StatusNotFound, map[string]any{"error": "import run not found"})
		return
	}
	h.JSON(w, http.StatusOK, rec)
}
