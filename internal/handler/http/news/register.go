package news

import (
	"log/slog"
	"net/http"

	newsUC "newswire/internal/usecase/news"
	"newswire/internal/usecase/notify"
)

// Register registers all news-related HTTP handlers with the given mux.
// It sets up routes for listing, streaming notifications, creating,
// publishing, updating and deleting news. Mutating routes require
// authentication via the authz middleware; the list and notification
// stream stay public.
func Register(mux *http.ServeMux, svc *newsUC.Service, bus *notify.Bus, authz func(http.Handler) http.Handler, logger *slog.Logger) {
	mux.Handle("GET    /newsAll", ListHandler{Svc: svc, Logger: logger})
	mux.Handle("GET    /newsNotice", NoticeHandler{Bus: bus, Logger: logger})

	mux.Handle("POST   /create", authz(CreateHandler{svc}))
	mux.Handle("POST   /publicate", authz(PublishHandler{svc}))
	mux.Handle("POST   /publicate_on_time", authz(PublishOnTimeHandler{svc}))
	mux.Handle("POST   /update", authz(UpdateHandler{svc}))
	mux.Handle("DELETE /delete/", authz(DeleteHandler{svc}))
}
