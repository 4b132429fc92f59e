package news_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"newswire/internal/domain/entity"
	"newswire/internal/repository"
	"newswire/internal/scheduler"
	newsUC "newswire/internal/usecase/news"
	"newswire/internal/usecase/notify"
)

/* ───────── スタブ実装 ───────── */

// 最小限のインメモリ NewsRepository
type stubRepo struct {
	mu     sync.Mutex
	data   map[int64]*entity.News
	nextID int64
	err    error // 強制的にエラーを返したいとき用
}

func newStub() *stubRepo {
	return &stubRepo{data: map[int64]*entity.News{}, nextID: 1}
}

func (s *stubRepo) List(_ context.Context) ([]*entity.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.News
	for _, v := range s.data {
		out = append(out, v)
	}
	return out, s.err
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[id], s.err
}

func (s *stubRepo) Create(_ context.Context, n *entity.News) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	n.ID = s.nextID
	s.nextID++
	n.IsPublished = false
	n.DatePublished = nil
	s.data[n.ID] = n
	return nil
}

func (s *stubRepo) UpdateFields(_ context.Context, id int64, f repository.UpdateFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	n, ok := s.data[id]
	if !ok {
		return entity.ErrNotFound
	}
	n.Title = f.Title
	n.Content = f.Content
	n.Author = f.Author
	return nil
}

func (s *stubRepo) Publish(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	n, ok := s.data[id]
	if !ok {
		return entity.ErrNotFound
	}
	n.IsPublished = true
	n.DatePublished = &at
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.data[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *stubRepo) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.data)), s.err
}

/* ───────── テストヘルパー ───────── */

func newService(repo repository.NewsRepository) (*newsUC.Service, *notify.Bus) {
	bus := notify.NewBus(nil)
	return newsUC.NewService(repo, bus, scheduler.New(nil), nil), bus
}

// recvEvent waits for one event from the subscriber.
func recvEvent(t *testing.T, sub *notify.Subscriber, timeout time.Duration) notify.Event {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for event")
		return notify.Event{}
	}
}

func assertNoEvent(t *testing.T, sub *notify.Subscriber, wait time.Duration) {
	t.Helper()
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(wait):
	}
}

/* ───────── Create ───────── */

func TestCreate_StoresUnpublishedAndAnnounces(t *testing.T) {
	repo := newStub()
	svc, bus := newService(repo)
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	n, err := svc.Create(context.Background(), newsUC.CreateInput{
		Title:   "t",
		Content: "c",
		Author:  "a",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.ID == 0 {
		t.Error("ID not assigned")
	}
	if n.IsPublished || n.DatePublished != nil {
		t.Error("new entry must be unpublished")
	}

	ev := recvEvent(t, sub, time.Second)
	if ev.Message != "News were created" {
		t.Errorf("message = %q", ev.Message)
	}
	if ev.Kind != notify.KindCreated {
		t.Errorf("kind = %q", ev.Kind)
	}
}

func TestCreate_RepoError_NoEvent(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("db down")
	svc, bus := newService(repo)
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	if _, err := svc.Create(context.Background(), newsUC.CreateInput{Title: "t"}); err == nil {
		t.Fatal("want error")
	}
	// 失敗した変更はイベントを出さない
	assertNoEvent(t, sub, 50*time.Millisecond)
}

/* ───────── PublishNow ───────── */

func TestPublishNow_MarksPublishedAndAnnounces(t *testing.T) {
	repo := newStub()
	svc, bus := newService(repo)
	n, _ := svc.Create(context.Background(), newsUC.CreateInput{Title: "t"})

	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	if err := svc.PublishNow(context.Background(), n.ID); err != nil {
		t.Fatalf("PublishNow: %v", err)
	}

	got, _ := repo.Get(context.Background(), n.ID)
	if !got.IsPublished || got.DatePublished == nil {
		t.Error("entry not marked published")
	}

	ev := recvEvent(t, sub, time.Second)
	if ev.Message != "News were publicated" {
		t.Errorf("message = %q", ev.Message)
	}
}

func TestPublishNow_Missing(t *testing.T) {
	svc, _ := newService(newStub())
	if err := svc.PublishNow(context.Background(), 999); !errors.Is(err, newsUC.ErrNewsNotFound) {
		t.Errorf("err = %v, want ErrNewsNotFound", err)
	}
}

func TestPublishNow_InvalidID(t *testing.T) {
	svc, _ := newService(newStub())
	if err := svc.PublishNow(context.Background(), 0); !errors.Is(err, newsUC.ErrInvalidNewsID) {
		t.Errorf("err = %v, want ErrInvalidNewsID", err)
	}
}

/* ───────── PublishAt ───────── */

func TestPublishAt_FiresAtInstant(t *testing.T) {
	repo := newStub()
	svc, bus := newService(repo)
	n, _ := svc.Create(context.Background(), newsUC.CreateInput{Title: "t"})

	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	at := time.Now().Add(50 * time.Millisecond)
	if err := svc.PublishAt(context.Background(), n.ID, at); err != nil {
		t.Fatalf("PublishAt: %v", err)
	}
	if got := svc.PendingCount(); got != 1 {
		t.Errorf("pending = %d, want 1", got)
	}

	// まだ発火していない
	got, _ := repo.Get(context.Background(), n.ID)
	if got.IsPublished {
		t.Error("published before the instant")
	}

	ev := recvEvent(t, sub, time.Second)
	want := "News were publicated on time " + at.Format(time.RFC3339)
	if ev.Message != want {
		t.Errorf("message = %q, want %q", ev.Message, want)
	}
	if ev.Kind != notify.KindPublishedOnTime {
		t.Errorf("kind = %q", ev.Kind)
	}

	got, _ = repo.Get(context.Background(), n.ID)
	if !got.IsPublished {
		t.Error("entry not published after firing")
	}
	if svc.PendingCount() != 0 {
		t.Error("pending entry not cleaned up after firing")
	}
}

func TestPublishAt_RecordsExecutionTime(t *testing.T) {
	repo := newStub()
	svc, bus := newService(repo)
	n, _ := svc.Create(context.Background(), newsUC.CreateInput{Title: "t"})

	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	at := time.Now().Add(30 * time.Millisecond)
	if err := svc.PublishAt(context.Background(), n.ID, at); err != nil {
		t.Fatalf("PublishAt: %v", err)
	}
	recvEvent(t, sub, time.Second)

	got, _ := repo.Get(context.Background(), n.ID)
	if got.DatePublished == nil {
		t.Fatal("date_published not set")
	}
	// 掲載日時は予約時に指定した時刻ではなく発火時刻になる
	if got.DatePublished.Equal(at) {
		t.Errorf("date_published = %v, equals the requested instant", got.DatePublished)
	}
	if got.DatePublished.Before(at) {
		t.Errorf("date_published = %v, earlier than the scheduled instant %v", got.DatePublished, at)
	}
}

func TestPublishAt_ImmediateFire_NoStalePending(t *testing.T) {
	repo := newStub()
	svc, _ := newService(repo)
	n, _ := svc.Create(context.Background(), newsUC.CreateInput{Title: "t"})

	// 登録前に発火しうるほど近い予約を繰り返しても追跡が残らない
	for i := 0; i < 50; i++ {
		err := svc.PublishAt(context.Background(), n.ID, time.Now().Add(200*time.Microsecond))
		if errors.Is(err, newsUC.ErrPublishDatePassed) {
			continue
		}
		if err != nil {
			t.Fatalf("PublishAt: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		if got := svc.PendingCount(); got != 0 {
			t.Fatalf("pending = %d after firing, want 0", got)
		}
	}
}

func TestPublishAt_PastInstant(t *testing.T) {
	svc, bus := newService(newStub())
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	err := svc.PublishAt(context.Background(), 1, time.Now().Add(-time.Minute))
	if !errors.Is(err, newsUC.ErrPublishDatePassed) {
		t.Errorf("err = %v, want ErrPublishDatePassed", err)
	}
	if svc.PendingCount() != 0 {
		t.Error("nothing should be pending")
	}
	assertNoEvent(t, sub, 50*time.Millisecond)
}

func TestPublishAt_MissingEntry_NoEvent(t *testing.T) {
	svc, bus := newService(newStub())
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	// 予約時点では存在チェックしない。発火時に失敗してイベントなし。
	if err := svc.PublishAt(context.Background(), 42, time.Now().Add(20*time.Millisecond)); err != nil {
		t.Fatalf("PublishAt: %v", err)
	}
	assertNoEvent(t, sub, 200*time.Millisecond)
}

func TestPublishAt_ReplacesPending(t *testing.T) {
	repo := newStub()
	svc, bus := newService(repo)
	n, _ := svc.Create(context.Background(), newsUC.CreateInput{Title: "t"})

	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	first := time.Now().Add(30 * time.Millisecond)
	second := time.Now().Add(80 * time.Millisecond)
	if err := svc.PublishAt(context.Background(), n.ID, first); err != nil {
		t.Fatalf("PublishAt first: %v", err)
	}
	if err := svc.PublishAt(context.Background(), n.ID, second); err != nil {
		t.Fatalf("PublishAt second: %v", err)
	}
	if got := svc.PendingCount(); got != 1 {
		t.Errorf("pending = %d, want 1", got)
	}

	ev := recvEvent(t, sub, time.Second)
	want := "News were publicated on time " + second.Format(time.RFC3339)
	if ev.Message != want {
		t.Errorf("message = %q, want %q", ev.Message, want)
	}
	// 最初の予約は置き換えられたので発火しない
	assertNoEvent(t, sub, 100*time.Millisecond)
}

/* ───────── Update ───────── */

func TestUpdate_LeavesPublicationState(t *testing.T) {
	repo := newStub()
	svc, bus := newService(repo)
	n, _ := svc.Create(context.Background(), newsUC.CreateInput{Title: "t", Content: "c", Author: "a"})
	if err := svc.PublishNow(context.Background(), n.ID); err != nil {
		t.Fatalf("PublishNow: %v", err)
	}

	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	err := svc.Update(context.Background(), n.ID, newsUC.UpdateInput{
		Title:   "t2",
		Content: "c2",
		Author:  "a2",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := repo.Get(context.Background(), n.ID)
	if got.Title != "t2" || got.Content != "c2" || got.Author != "a2" {
		t.Errorf("fields not updated: %+v", got)
	}
	if !got.IsPublished {
		t.Error("update must not clear publication state")
	}

	ev := recvEvent(t, sub, time.Second)
	if ev.Message != "News were updated" {
		t.Errorf("message = %q", ev.Message)
	}
}

func TestUpdate_Missing(t *testing.T) {
	svc, _ := newService(newStub())
	err := svc.Update(context.Background(), 999, newsUC.UpdateInput{Title: "t"})
	if !errors.Is(err, newsUC.ErrNewsNotFound) {
		t.Errorf("err = %v, want ErrNewsNotFound", err)
	}
}

/* ───────── Delete ───────── */

func TestDelete_RemovesAndAnnounces(t *testing.T) {
	repo := newStub()
	svc, bus := newService(repo)
	n, _ := svc.Create(context.Background(), newsUC.CreateInput{Title: "t"})

	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	if err := svc.Delete(context.Background(), n.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := repo.Get(context.Background(), n.ID); got != nil {
		t.Error("entry still present")
	}

	ev := recvEvent(t, sub, time.Second)
	if ev.Message != "News were deleted" {
		t.Errorf("message = %q", ev.Message)
	}
}

func TestDelete_InvalidID_BeforeStorage(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("repo must not be touched")
	svc, _ := newService(repo)

	if err := svc.Delete(context.Background(), 0); !errors.Is(err, newsUC.ErrInvalidNewsID) {
		t.Errorf("err = %v, want ErrInvalidNewsID", err)
	}
	if err := svc.Delete(context.Background(), -5); !errors.Is(err, newsUC.ErrInvalidNewsID) {
		t.Errorf("err = %v, want ErrInvalidNewsID", err)
	}
}

func TestDelete_CancelsPendingPublication(t *testing.T) {
	repo := newStub()
	svc, bus := newService(repo)
	n, _ := svc.Create(context.Background(), newsUC.CreateInput{Title: "t"})

	if err := svc.PublishAt(context.Background(), n.ID, time.Now().Add(50*time.Millisecond)); err != nil {
		t.Fatalf("PublishAt: %v", err)
	}

	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	if err := svc.Delete(context.Background(), n.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if svc.PendingCount() != 0 {
		t.Error("pending publication not cancelled")
	}

	ev := recvEvent(t, sub, time.Second)
	if ev.Message != "News were deleted" {
		t.Errorf("message = %q", ev.Message)
	}
	// 削除済みエントリの予約公開は発火しない
	assertNoEvent(t, sub, 150*time.Millisecond)
}
