// Package jobs wires the console's background work onto Asynq: operation
// log write-behind and the nightly retention purge.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/canteencloud/console/internal/oplog"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOpLogRecord persists one operation log entry.
	TaskOpLogRecord = "oplog:record"
	// TaskOpLogPurge deletes operation log entries past retention.
	TaskOpLogPurge = "oplog:purge"
)

// OpLogPurgePayload configures a retention purge run.
type OpLogPurgePayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewOpLogRecordTask wraps an entry into an Asynq task.
func NewOpLogRecordTask(entry oplog.Entry) (*asynq.Task, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOpLogRecord, data), nil
}

// NewOpLogPurgeTask builds the scheduled purge task.
func NewOpLogPurgeTask(retentionDays int) (*asynq.Task, error) {
	data, err := json.Marshal(OpLogPurgePayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOpLogPurge, data), nil
}
