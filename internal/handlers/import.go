package handlers

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"planner_import/internal/repository/database"
	imports "planner_import/internal/repository/imports"
	"planner_import/internal/services/importer"
)

type importRequest struct {
	content  []byte
	filename string
	opts     importer.Options
}

// Import runs the workbook pipeline inside one transaction. Multipart posts
// carry the workbook directly; JSON posts reference a stored path from a
// previous upload. The transaction commits only when the run can apply and
// dry_run is off.
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		h.JSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "use POST"})
		return
	}

	req, err := h.parseImportRequest(r)
	if err != nil {
		h.Logger.Printf("[IMPORT][ERR] parse request: %v", err)
		h.JSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	ctx := r.Context()

	rec, err := imports.InsertRunRecord(ctx, h.Mongo, imports.RunRecord{
		Filename:        req.filename,
		DryRun:          req.opts.DryRun,
		UpsertPolicy:    req.opts.UpsertPolicy,
		ValidationMode:  req.opts.ValidationMode,
		DuplicatePolicy: req.opts.DuplicatePolicy,
		Status:          imports.StatusRunning,
	})
	if err != nil {
		h.Logger.Printf("[IMPORT][ERR] run record insert: %v", err)
		h.JSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	tx, err := h.Postgres.Pool.Begin(ctx)
	if err != nil {
		h.Logger.Printf("[IMPORT][ERR] begin tx: %v", err)
		_ = imports.MarkRunFailed(ctx, h.Mongo, rec.ID, err.Error())
		h.JSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	sum, err := importer.New(database.NewStore(tx)).Run(ctx, req.content, req.filename, req.opts)
	if err != nil {
		_ = tx.Rollback(ctx)
		_ = imports.MarkRunFailed(ctx, h.Mongo, rec.ID, err.Error())

		var reqErr *importer.RequestError
		if errors.As(err, &reqErr) {
			h.JSON(w, reqErr.Status, map[string]any{"error": reqErr.Message})
			return
		}
		h.Logger.Printf("[IMPORT][ERR] run: %v", err)
		h.JSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	status := imports.StatusDryRun
	switch {
	case !sum.CanApply:
		status = imports.StatusBlocked
		_ = tx.Rollback(ctx)
	case sum.DryRun:
		_ = tx.Rollback(ctx)
	default:
		if err := tx.Commit(ctx); err != nil {
			h.Logger.Printf("[IMPORT][ERR] commit: %v", err)
			_ = imports.MarkRunFailed(ctx, h.Mongo, rec.ID, err.Error())
			h.JSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		status = imports.StatusApplied
	}

	if err := imports.FinishRunRecord(ctx, h.Mongo, rec.ID, status, sum.CanApply, sum.ErrorCount, sum.WarningCount, sum.Blockers); err != nil {
		h.Logger.Printf("[IMPORT][WARN] finish run record: %v", err)
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	h.JSON(w, http.StatusOK, map[string]any{"id": rec.ID, "status": status, "summary": sum})
}

func (h *Handlers) parseImportRequest(r *http.Request) (importRequest, error) {
	var req importRequest

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(128 << 20); err != nil {
			return req, err
		}
		f, fh, err := r.FormFile("file")
		if err != nil {
			return req, errors.New("file is required")
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return req, err
		}
		req.content = content
		req.filename = path.Base(fh.Filename)
		req.opts, err = optionsFromValues(r.FormValue)
		return req, err
	}

	var body struct {
		FilePath        string `json:"file_path"`
		YearOverride    int    `json:"year_override"`
		UpsertPolicy    string `json:"upsert_policy"`
		ValidationMode  string `json:"validation_mode"`
		DuplicatePolicy string `json:"duplicate_policy"`
		DryRun          bool   `json:"dry_run"`
	}
	if err := decodeJSON(r.Body, &body); err != nil {
		return req, err
	}
	if body.FilePath == "" {
		return req, errors.New("file_path is required")
	}

	content, _, err := h.Opener.ReadAll(r.Context(), body.FilePath)
	if err != nil {
		return req, err
	}
	req.content = content
	req.filename = path.Base(body.FilePath)
	req.opts = importer.Options{
		YearOverride:    body.YearOverride,
		UpsertPolicy:    body.UpsertPolicy,
		ValidationMode:  body.ValidationMode,
		DuplicatePolicy: body.DuplicatePolicy,
		DryRun:          body.DryRun,
	}
	return req, nil
}

func optionsFromValues(get func(string) string) (importer.Options, error) {
	opts := importer.Options{
		UpsertPolicy:    get("upsert_policy"),
		ValidationMode:  get("validation_mode"),
		DuplicatePolicy: get("duplicate_policy"),
	}
	if v := strings.TrimSpace(get("year_override")); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("year_override must be an integer")
		}
		opts.YearOverride = year
	}
	if v := strings.TrimSpace(get("dry_run")); v != "" {
		dry, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New("dry_run must be a boolean")
		}
		opts.DryRun = dry
	}
	return opts, nil
}
