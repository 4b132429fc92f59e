package news_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	newshttp "newswire/internal/handler/http/news"
	"newswire/internal/usecase/notify"
)

// readFrame reads one "data: ..." SSE frame from the stream.
func readFrame(t *testing.T, r *bufio.Reader, timeout time.Duration) string {
	t.Helper()
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				ch <- result{err: err}
				return
			}
			if strings.HasPrefix(line, "data: ") {
				ch <- result{line: strings.TrimSpace(strings.TrimPrefix(line, "data: "))}
				return
			}
		}
	}()
	select {
	case res := <-ch:
		if res.err != nil {
			t.Fatalf("read frame: %v", res.err)
		}
		return res.line
	case <-time.After(timeout):
		t.Fatal("timed out waiting for frame")
		return ""
	}
}

func TestNoticeHandler_StreamsEvents(t *testing.T) {
	bus := notify.NewBus(nil)
	srv := httptest.NewServer(newshttp.NoticeHandler{Bus: bus})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/newsNotice", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	// 購読が確立してから発行する
	deadline := time.Now().Add(2 * time.Second)
	for bus.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never attached")
		}
		time.Sleep(5 * time.Millisecond)
	}

	bus.Publish(notify.Event{Kind: notify.KindCreated, Message: "News were created"})

	reader := bufio.NewReader(resp.Body)
	frame := readFrame(t, reader, 2*time.Second)
	if frame != `"News were created"` {
		t.Errorf("frame = %q, want JSON-encoded message", frame)
	}
}

func TestNoticeHandler_DetachOnDisconnect(t *testing.T) {
	bus := notify.NewBus(nil)
	srv := httptest.NewServer(newshttp.NoticeHandler{Bus: bus})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/newsNotice", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	deadline := time.Now().Add(2 * time.Second)
	for bus.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never attached")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()

	// 切断後すみやかに購読解除される
	deadline = time.Now().Add(2 * time.Second)
	for bus.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber not released after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNoticeHandler_NoReplayForLateSubscriber(t *testing.T) {
	bus := notify.NewBus(nil)

	// 接続前のイベントは届かない
	bus.Publish(notify.Event{Kind: notify.KindCreated, Message: "News were created"})

	srv := httptest.NewServer(newshttp.NoticeHandler{Bus: bus})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/newsNotice", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	for err == nil {
		if strings.HasPrefix(line, "data: ") {
			t.Fatalf("unexpected replayed frame: %q", line)
		}
		line, err = reader.ReadString('\n')
	}
}
