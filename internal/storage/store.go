package storage

import (
	"context"
	"errors"
	"time"

	"desire-paths/internal/core"
	"desire-paths/internal/sims/park"
	"desire-paths/internal/sweep"
)

// ErrNotInitialized is returned by stores used before Init.
var ErrNotInitialized = errors.New("store is not initialized")

// RunRecord is the persisted summary of one simulation run.
type RunRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`

	ID        string       `json:"id"`
	SweepID   string       `json:"sweep_id"`
	Park      string       `json:"park"`
	Metric    string       `json:"metric"`
	Seed      int64        `json:"seed"`
	Steps     int          `json:"steps"`
	Params    park.Params  `json:"params"`
	Scored    bool         `json:"scored"`
	Accuracy  float64      `json:"accuracy"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Wear      []int        `json:"wear"`
	Heatmap   []int        `json:"heatmap"`
	Agents    []core.Point `json:"agents"`
	ElapsedMS int64        `json:"elapsed_ms"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewRunRecord captures a sweep result under sweepID.
func NewRunRecord(sweepID string, r sweep.Result) RunRecord {
	return RunRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
		ID:            r.RunID,
		SweepID:       sweepID,
		Park:          r.Config.Park,
		Metric:        r.Config.Metric,
		Seed:          r.Config.Seed,
		Steps:         r.Steps,
		Params:        r.Config.Params,
		Scored:        r.Scored,
		Accuracy:      r.Score(),
		Width:         r.Snapshot.Width,
		Height:        r.Snapshot.Height,
		Wear:          r.Snapshot.Wear,
		Heatmap:       r.Snapshot.Heatmap,
		Agents:        r.Snapshot.Agents,
		ElapsedMS:     r.Elapsed.Milliseconds(),
		CreatedAt:     time.Now().UTC(),
	}
}

// Store persists run records.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	// ListRuns returns the runs of a sweep, best accuracy first. An empty
	// sweep id lists every run.
	ListRuns(ctx context.Context, sweepID string) ([]RunRecord, error)
	Close() error
}
