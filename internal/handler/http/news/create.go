package news

import (
	"encoding/json"
	"errors"
	"net/http"

	"newswire/internal/handler/http/respond"
	newsUC "newswire/internal/usecase/news"
)

type CreateHandler struct{ Svc *newsUC.Service }

// ServeHTTP ニュース作成
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
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

	if _, err := h.Svc.Create(r.Context(), newsUC.CreateInput{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	}); err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusCreated, "ok")
}
