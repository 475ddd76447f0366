package imports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mg "planner_import/internal/config/connections/mongo"
)

const RunRecordsCollection = "import_runs"

// Run statuses, in rough lifecycle order.
const (
	StatusUploaded = "uploaded"
	StatusRunning  = "running"
	StatusApplied  = "applied"
	StatusDryRun   = "dry_run"
	StatusBlocked  = "blocked"
	StatusFailed   = "failed"
)

// RunRecord is the audit trail of one workbook import run. The summary
// returned to the caller is not persisted; this record keeps the run's
// metadata and final outcome.
type RunRecord struct {
	ID              string     `bson:"_id" json:"id"`
	Filename        string     `bson:"filename" json:"filename"`
	Path            *string    `bson:"path,omitempty" json:"path,omitempty"`
	Bucket          *string    `bson:"bucket,omitempty" json:"bucket,omitempty"`
	Key             *string    `bson:"key,omitempty" json:"key,omitempty"`
	SizeBytes       *int64     `bson:"size_bytes,omitempty" json:"size_bytes,omitempty"`
	DryRun          bool       `bson:"dry_run" json:"dry_run"`
	UpsertPolicy    string     `bson:"upsert_policy,omitempty" json:"upsert_policy,omitempty"`
	ValidationMode  string     `bson:"validation_mode,omitempty" json:"validation_mode,omitempty"`
	DuplicatePolicy string     `bson:"duplicate_policy,omitempty" json:"duplicate_policy,omitempty"`
	Status          string     `bson:"status" json:"status"`
	CanApply        *bool      `bson:"can_apply,omitempty" json:"can_apply,omitempty"`
	ErrorCount      int        `bson:"error_count" json:"error_count"`
	WarningCount    int        `bson:"warning_count" json:"warning_count"`
	Blockers        []string   `bson:"blockers,omitempty" json:"blockers,omitempty"`
	Errors          *string    `bson:"errors,omitempty" json:"errors,omitempty"`
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at" json:"updated_at"`
	FinishedAt      *time.Time `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
}

func InsertRunRecord(ctx context.Context, m *mg.Mongo, rec RunRecord) (RunRecord, error) {
	if m == nil || m.Database == nil {
		return rec, mongo.ErrClientDisconnected
	}

	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if rec.Status == "" {
		rec.Status = StatusUploaded
	}

	_, err := m.Database.Collection(RunRecordsCollection).InsertOne(ctx, rec, options.InsertOne())
	return rec, err
}

// FinishRunRecord stamps the run's outcome once the transaction has been
// committed or rolled back.
func FinishRunRecord(ctx context.Context, m *mg.Mongo, id, status string, canApply bool, errorCount, warningCount int, blockers []string) error {
	if m == nil || m.Database == nil {
		return mongo.ErrClientDisconnected
	}
	if id == "" {
		return fmt.Errorf("empty run record id")
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"status":        status,
			"can_apply":     canApply,
			"error_count":   errorCount,
			"warning_count": warningCount,
			"blockers":      blockers,
			"updated_at":    now,
			"finished_at":   now,
		},
	}
	res, err := m.Database.Collection(RunRecordsCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no import run found with id %s", id)
	}
	return nil
}

// MarkRunFailed records a structural failure (bad workbook, storage error).
func MarkRunFailed(ctx context.Context, m *mg.Mongo, id, reason string) error {
	if m == nil || m.Database == nil {
		return mongo.ErrClientDisconnected
	}
	now := time.Now().UTC()
	_, err := m.Database.Collection(RunRecordsCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":      StatusFailed,
			"errors":      reason,
			"updated_at":  now,
			"finished_at": now,
		},
	})
	return err
}

func FindRunRecordByID(ctx context.Context, m *mg.Mongo, id string) (RunRecord, error) {
	var out RunRecord
	if m == nil || m.Database == nil {
		return out, mongo.ErrClientDisconnected
	}
	err := m.Database.Collection(RunRecordsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if err != nil {
		return out, fmt.Errorf("not found: %w", err)
	}
	return out, nil
}

func ListRunRecords(ctx context.Context, m *mg.Mongo, filter bson.M, limit, skip int64) ([]RunRecord, int64, error) {
	if m == nil || m.Database == nil {
		return nil, 0, mongo.ErrClientDisconnected
	}
	coll := m.Database.Collection(RunRecordsCollection)
	if filter == nil {
		filter = bson.M{}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	recs := make([]RunRecord, 0)
	for cur.Next(ctx) {
		var r RunRecord
		if err := cur.Decode(&r); err != nil {
			continue
		}
		recs = append(recs, r)
	}
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		total = int64(len(recs))
	}
	return recs, total, nil
}
