package jobs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/canteencloud/console/internal/oplog"
	_ "github.com/canteencloud/console/testing"
)

type recordingRepo struct {
	entries []oplog.Entry
	cutoff  time.Time
}

func (r *recordingRepo) Insert(ctx context.Context, entry *oplog.Entry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *recordingRepo) List(ctx context.Context, orgID int64, limit, offset int) ([]oplog.Entry, int, error) {
	return r.entries, len(r.entries), nil
}

func (r *recordingRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return 2, nil
}

func TestHandleRecordPersistsEntry(t *testing.T) {
	repo := &recordingRepo{}
	job := NewOpLogJob(oplog.NewService(repo, nil, nil), nil, nil)

	task, err := NewOpLogRecordTask(oplog.Entry{ActorID: 7, Method: "POST", Path: "/api/v1/schools"})
	require.NoError(t, err)

	require.NoError(t, job.HandleRecord(context.Background(), task))
	require.Len(t, repo.entries, 1)
	require.EqualValues(t, 7, repo.entries[0].ActorID)
}

func TestHandleRecordSkipsBadPayload(t *testing.T) {
	job := NewOpLogJob(oplog.NewService(&recordingRepo{}, nil, nil), nil, nil)
	task := asynq.NewTask(TaskOpLogRecord, []byte("not json"))

	err := job.HandleRecord(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry, "a poisoned payload must not retry forever")
}

func TestHandlePurge(t *testing.T) {
	repo := &recordingRepo{}
	job := NewOpLogJob(oplog.NewService(repo, nil, nil), nil, nil)

	task, err := NewOpLogPurgeTask(30)
	require.NoError(t, err)
	require.NoError(t, job.HandlePurge(context.Background(), task))
	require.WithinDuration(t, time.Now().UTC().Add(-30*24*time.Hour), repo.cutoff, 5*time.Second)

	bad := asynq.NewTask(TaskOpLogPurge, []byte("not json"))
	require.ErrorIs(t, job.HandlePurge(context.Background(), bad), asynq.SkipRetry)
}

func TestPurgeTaskPayloadRoundtrip(t *testing.T) {
	task, err := NewOpLogPurgeTask(90)
	require.NoError(t, err)
	require.Equal(t, TaskOpLogPurge, task.Type())

	var payload OpLogPurgePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, 90, payload.RetentionDays)
}
