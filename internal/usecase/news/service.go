package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newswire/internal/domain/entity"
	"newswire/internal/observability/metrics"
	"newswire/internal/repository"
	"newswire/internal/scheduler"
	"newswire/internal/usecase/notify"
)

// Change event messages streamed to connected viewers.
const (
	msgCreated         = "News were created"
	msgPublished       = "News were publicated"
	msgPublishedOnTime = "News were publicated on time %s"
	msgUpdated         = "News were updated"
	msgDeleted         = "News were deleted"
)

// publishTimeout bounds the repository call made when a deferred
// publication fires. The firing goroutine has no request context.
const publishTimeout = 10 * time.Second

// CreateInput represents the input parameters for creating a news entry.
type CreateInput struct {
	Title   string
	Content string
	Author  string
}

// UpdateInput represents the input parameters for updating a news entry.
// Publication state is never touched by an update.
type UpdateInput struct {
	Title   string
	Content string
	Author  string
}

// Service provides news management use cases. It delegates persistence to
// the repository, emits exactly one change event on the bus after every
// successful mutation, and tracks pending deferred publications so they
// can be replaced or cancelled.
type Service struct {
	Repo   repository.NewsRepository
	Bus    *notify.Bus
	Sched  *scheduler.Scheduler
	Logger *slog.Logger

	mu      sync.Mutex
	pending map[int64]*scheduler.Handle
}

// NewService creates a news Service. A nil logger falls back to
// slog.Default.
func NewService(repo repository.NewsRepository, bus *notify.Bus, sched *scheduler.Scheduler, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Repo:    repo,
		Bus:     bus,
		Sched:   sched,
		Logger:  logger,
		pending: make(map[int64]*scheduler.Handle),
	}
}

// List retrieves all news entries from the repository.
// Returns an error if the repository operation fails.
func (s *Service) List(ctx context.Context) ([]*entity.News, error) {
	items, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

// Create stores a new unpublished news entry and announces it on the bus.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.News, error) {
	n := &entity.News{
		Title:   in.Title,
		Content: in.Content,
		Author:  in.Author,
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create news: %w", err)
	}

	s.Bus.Publish(notify.Event{Kind: notify.KindCreated, Message: msgCreated})
	return n, nil
}

// PublishNow marks the news entry as published with the current time as
// its publication date and announces it on the bus.
// Returns ErrInvalidNewsID if the ID is not positive.
// Returns ErrNewsNotFound if the news entry does not exist.
func (s *Service) PublishNow(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidNewsID
	}

	if err := s.Repo.Publish(ctx, id, time.Now()); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrNewsNotFound
		}
		return fmt.Errorf("publish news: %w", err)
	}

	s.Bus.Publish(notify.Event{Kind: notify.KindPublished, Message: msgPublished})
	return nil
}

// PublishAt schedules the news entry for publication at a future instant.
// The call returns immediately; the entry stays unpublished until the
// instant arrives, at which point it is published and announced on the
// bus with the requested instant in the message. Scheduling again for the
// same entry replaces the earlier pending publication.
// Returns ErrInvalidNewsID if the ID is not positive.
// Returns ErrPublishDatePassed if the instant is not in the future.
func (s *Service) PublishAt(ctx context.Context, id int64, at time.Time) error {
	if id <= 0 {
		return ErrInvalidNewsID
	}

	handle, err := s.Sched.ScheduleAt(at, func() {
		s.firePublish(id, at)
	})
	if err != nil {
		if errors.Is(err, scheduler.ErrInstantPassed) {
			return ErrPublishDatePassed
		}
		return fmt.Errorf("schedule publish: %w", err)
	}

	s.mu.Lock()
	if prev, ok := s.pending[id]; ok && prev.Cancel() {
		// 同じIDの再予約は前のタイマーを置き換える
		metrics.RecordScheduledFired("cancelled")
	}
	if handle.Fired() {
		// 登録より先に発火した場合は追跡に残さない
		delete(s.pending, id)
	} else {
		s.pending[id] = handle
	}
	metrics.UpdateScheduledPending(len(s.pending))
	s.mu.Unlock()

	s.Logger.Info("publication scheduled",
		slog.Int64("news_id", id),
		slog.Time("publish_at", at),
	)
	return nil
}

// firePublish runs on the scheduler goroutine when a deferred
// publication comes due.
func (s *Service) firePublish(id int64, at time.Time) {
	s.mu.Lock()
	if s.pending[id] != nil && s.pending[id].Fired() {
		delete(s.pending, id)
		metrics.UpdateScheduledPending(len(s.pending))
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	// 掲載日時には要求時刻ではなく実際に実行した時刻を記録する
	if err := s.Repo.Publish(ctx, id, time.Now()); err != nil {
		s.Logger.Error("scheduled publication failed",
			slog.Int64("news_id", id),
			slog.Time("publish_at", at),
			slog.String("error", err.Error()),
		)
		metrics.RecordScheduledFired("failure")
		return
	}

	metrics.RecordScheduledFired("success")
	s.Bus.Publish(notify.Event{
		Kind:    notify.KindPublishedOnTime,
		Message: fmt.Sprintf(msgPublishedOnTime, at.Format(time.RFC3339)),
	})
}

// Update changes the title, content and author of an existing news entry
// and announces the change on the bus. Publication state is left as it
// was.
// Returns ErrInvalidNewsID if the ID is not positive.
// Returns ErrNewsNotFound if the news entry does not exist.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) error {
	if id <= 0 {
		return ErrInvalidNewsID
	}

	fields := repository.UpdateFields{
		Title:   in.Title,
		Content: in.Content,
		Author:  in.Author,
	}
	if err := s.Repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrNewsNotFound
		}
		return fmt.Errorf("update news: %w", err)
	}

	s.Bus.Publish(notify.Event{Kind: notify.KindUpdated, Message: msgUpdated})
	return nil
}

// Delete removes a news entry and announces the removal on the bus. A
// pending deferred publication for the entry is cancelled so a deleted
// entry can never be published later.
// Returns ErrInvalidNewsID if the ID is not positive.
// Returns ErrNewsNotFound if the news entry does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidNewsID
	}

	s.mu.Lock()
	if h, ok := s.pending[id]; ok {
		if h.Cancel() {
			metrics.RecordScheduledFired("cancelled")
		}
		delete(s.pending, id)
		metrics.UpdateScheduledPending(len(s.pending))
	}
	s.mu.Unlock()

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrNewsNotFound
		}
		return fmt.Errorf("delete news: %w", err)
	}

	s.Bus.Publish(notify.Event{Kind: notify.KindDeleted, Message: msgDeleted})
	return nil
}

// PendingCount reports how many deferred publications are waiting to
// fire.
func (s *Service) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
