package oplog

import (
	"context"
	"log/slog"
	"time"

	"github.com/canteencloud/console/internal/nav"
	"github.com/canteencloud/console/internal/platform/httpx"
	"github.com/canteencloud/console/internal/session"
)

// Enqueuer hands log entries to the background queue. Satisfied by the
// jobs client; nil disables write-behind and entries go straight to the
// repository.
type Enqueuer interface {
	EnqueueOpLogRecord(ctx context.Context, entry Entry) error
}

// Service implements operation-log business rules.
type Service struct {
	repo   Repository
	queue  Enqueuer
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, queue Enqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, queue: queue, logger: logger}
}

// Record captures one operation. Entries normally travel through the
// queue so request latency never waits on the log table; when the queue
// is unavailable the entry is written inline rather than dropped.
func (s *Service) Record(ctx context.Context, entry Entry) {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	if s.queue != nil {
		if err := s.queue.EnqueueOpLogRecord(ctx, entry); err == nil {
			return
		} else if s.logger != nil {
			s.logger.Warn("oplog enqueue failed, writing inline", slog.Any("error", err))
		}
	}
	if err := s.repo.Insert(ctx, &entry); err != nil && s.logger != nil {
		s.logger.Error("oplog insert", slog.Any("error", err))
	}
}

// Store persists an entry directly. The worker's record handler calls it.
func (s *Service) Store(ctx context.Context, entry Entry) error {
	return s.repo.Insert(ctx, &entry)
}

// List returns one page of log entries. Platform admins and root may read
// any organization; everyone else is pinned to their own.
func (s *Service) List(ctx context.Context, caller session.Session, orgID int64, page, perPage int) ([]Entry, int, error) {
	switch caller.Role {
	case nav.RolePlatformAdmin, nav.RoleRoot:
	default:
		orgID = caller.Profile.OrgID
	}
	offset := (page - 1) * perPage
	return s.repo.List(ctx, orgID, perPage, offset)
}

// Purge removes entries older than the retention window.
func (s *Service) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, httpx.ErrValidation
	}
	return s.repo.PurgeBefore(ctx, time.Now().UTC().Add(-retention))
}
