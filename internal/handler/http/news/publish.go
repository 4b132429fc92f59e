package news

import (
	"encoding/json"
	"errors"
	"net/http"

	"newswire/internal/handler/http/respond"
	newsUC "newswire/internal/usecase/news"
)

type PublishHandler struct{ Svc *newsUC.Service }

// ServeHTTP ニュース即時公開
func (h PublishHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	if err := h.Svc.PublishNow(r.Context(), req.ID); err != nil {
		switch {
		case errors.Is(err, newsUC.ErrInvalidNewsID):
			respond.SafeError(w, http.StatusBadRequest, err)
		case errors.Is(err, newsUC.ErrNewsNotFound):
			respond.SafeError(w, http.StatusNotFound, err)
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	respond.JSON(w, http.StatusOK, "ok")
}
