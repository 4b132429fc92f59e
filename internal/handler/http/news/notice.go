package news

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"newswire/internal/handler/http/respond"
	"newswire/internal/observability/logging"
	"newswire/internal/usecase/notify"
)

type NoticeHandler struct {
	Bus    *notify.Bus
	Logger *slog.Logger
}

// ServeHTTP 変更通知ストリーム
// Streams one server-sent-events frame per change event for as long as
// the client stays connected. Events published before the client
// attached are never delivered.
func (h NoticeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.SafeError(w, http.StatusInternalServerError,
			errors.New("streaming unsupported"))
		return
	}

	logger := logging.WithRequestID(r.Context(), h.Logger)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.Bus.Subscribe()
	defer h.Bus.Unsubscribe(sub)

	logger.Info("notice stream attached")

	for {
		select {
		case <-r.Context().Done():
			// クライアント切断で即座に購読解除
			logger.Info("notice stream detached")
			return
		case ev := <-sub.Events():
			payload, err := json.Marshal(ev.Message)
			if err != nil {
				logger.Error("failed to encode change event",
					slog.String("error", err.Error()))
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				logger.Warn("notice stream write failed",
					slog.String("error", err.Error()))
				return
			}
			flusher.Flush()
		}
	}
}
