package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/canteencloud/console/internal/jobs"
	"github.com/canteencloud/console/internal/oplog"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// OpLogJob processes operation log tasks in the worker.
type OpLogJob struct {
	Service *oplog.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewOpLogJob constructs an OpLogJob. A nil metrics argument falls back to
// the process-wide job metrics.
func NewOpLogJob(service *oplog.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *OpLogJob {
	return &OpLogJob{Service: service, Logger: logger, Metrics: metrics}
}

// HandleRecord persists a single queued log entry.
func (j *OpLogJob) HandleRecord(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics().Track(TaskOpLogRecord)
	var entry oplog.Entry
	if err := json.Unmarshal(t.Payload(), &entry); err != nil {
		_ = tracker.End(err)
		return asynq.SkipRetry
	}
	return tracker.End(j.Service.Store(ctx, entry))
}

// HandlePurge removes entries older than the configured retention.
func (j *OpLogJob) HandlePurge(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics().Track(TaskOpLogPurge)
	var payload OpLogPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		_ = tracker.End(err)
		return asynq.SkipRetry
	}
	purged, err := j.Service.Purge(ctx, time.Duration(payload.RetentionDays)*24*time.Hour)
	if err != nil {
		return tracker.End(err)
	}
	j.logger().Info("op log purge completed",
		slog.Int("retention_days", payload.RetentionDays),
		slog.Int64("purged", purged))
	return tracker.End(nil)
}

func (j *OpLogJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *OpLogJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
