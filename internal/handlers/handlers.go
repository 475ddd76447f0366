package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"planner_import/internal/adapters/opener"
	"planner_import/internal/config/connections/mongo"
	"planner_import/internal/config/connections/postgres"
	"planner_import/internal/config/connections/s3"
)

type Handlers struct {
	Postgres *postgres.Postgres
	Mongo    *mongo.Mongo
	S3       *s3.S3

	Opener *opener.WorkbookOpener

	Logger *log.Logger
}

func New(pg *postgres.Postgres, mg *mongo.Mongo, s3c *s3.S3) *Handlers {
	httpOp := opener.NewHTTPOpener(nil)

	var s3Op *opener.S3Opener
	bucket := ""
	if s3c != nil {
		s3Op = opener.NewS3Opener(s3c.Client)
		bucket = s3c.Bucket
	}

	return &Handlers{
		Postgres: pg,
		Mongo:    mg,
		S3:       s3c,
		Opener:   opener.NewWorkbookOpener(httpOp, s3Op, bucket),
		Logger:   log.Default(),
	}
}

func (h *Handlers) JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
