package news

import (
	"log/slog"
	"net/http"

	"newswire/internal/handler/http/respond"
	"newswire/internal/observability/logging"
	newsUC "newswire/internal/usecase/news"
)

type ListHandler struct {
	Svc    *newsUC.Service
	Logger *slog.Logger
}

// ServeHTTP ニュース一覧取得
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	items, err := h.Svc.List(ctx)
	if err != nil {
		logger.Error("failed to list news", slog.String("error", err.Error()))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(items))
	for _, n := range items {
		dtos = append(dtos, toDTO(n))
	}
	respond.JSON(w, http.StatusOK, dtos)
}
