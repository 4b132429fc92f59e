package news

import (
	"encoding/json"
	"errors"
	"net/http"

	"newswire/internal/handler/http/respond"
	newsUC "newswire/internal/usecase/news"
)

type UpdateHandler struct{ Svc *newsUC.Service }

// ServeHTTP ニュース更新
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
		Author  string `json:"author"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.Title == "" || req.Content == "" || req.Author == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("title, content, author are required"))
		return
	}

	if err := h.Svc.Update(r.Context(), req.ID, newsUC.UpdateInput{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	}); err != nil {
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
