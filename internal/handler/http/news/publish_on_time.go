package news

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"newswire/internal/handler/http/respond"
	newsUC "newswire/internal/usecase/news"
)

type PublishOnTimeHandler struct{ Svc *newsUC.Service }

// parsePublishTime はRFC3339を受け付け、タイムゾーンなしの
// "2006-01-02T15:04:05" はサーバーのローカル時刻として解釈する。
func parsePublishTime(v string) (time.Time, error) {
	at, err := time.Parse(time.RFC3339, v)
	if err == nil {
		return at, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", v, time.Local)
}

// ServeHTTP ニュース予約公開
func (h PublishOnTimeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID            int64  `json:"id"`
		DatePublished string `json:"date_published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	at, err := parsePublishTime(req.DatePublished)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("date_published must be an RFC3339 timestamp"))
		return
	}

	if err := h.Svc.PublishAt(r.Context(), req.ID, at); err != nil {
		switch {
		case errors.Is(err, newsUC.ErrInvalidNewsID):
			respond.SafeError(w, http.StatusBadRequest, err)
		case errors.Is(err, newsUC.ErrPublishDatePassed):
			// 過去日時は予約せずそのまま理由を返す
			respond.Error(w, http.StatusBadRequest, err)
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	respond.JSON(w, http.StatusOK, "ok")
}
