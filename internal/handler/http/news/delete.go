package news

import (
	"errors"
	"net/http"

	"newswire/internal/handler/http/pathutil"
	"newswire/internal/handler/http/respond"
	newsUC "newswire/internal/usecase/news"
)

type DeleteHandler struct{ Svc *newsUC.Service }

// ServeHTTP ニュース削除
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/delete/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
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
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}
