// Package auth provides HTTP handlers for user registration and login,
// plus the bearer-token middleware protecting mutating endpoints.
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"newswire/internal/domain/entity"
	"newswire/internal/handler/http/requestid"
	"newswire/internal/handler/http/respond"
	authservice "newswire/internal/service/auth"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// RegistrationHandler creates an HTTP handler that registers a new user.
func RegistrationHandler(svc *authservice.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}

		user, err := svc.Register(r.Context(), authservice.Credentials{
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			var vErr *entity.ValidationError
			switch {
			case errors.As(err, &vErr):
				respond.SafeError(w, http.StatusBadRequest, vErr)
			case errors.Is(err, entity.ErrDuplicateUsername):
				respond.SafeError(w, http.StatusBadRequest, err)
			default:
				respond.SafeError(w, http.StatusInternalServerError, err)
			}
			logger.Warn("registration failed",
				slog.String("username", req.Username),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			return
		}

		logger.Info("user registered",
			slog.Int64("user_id", user.ID),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		respond.JSON(w, http.StatusCreated, userResponse{
			ID:       user.ID,
			Username: user.Username,
		})
	}
}

// LoginHandler creates an HTTP handler that exchanges valid credentials
// for a signed bearer token.
func LoginHandler(svc *authservice.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}

		token, err := svc.Login(r.Context(), authservice.Credentials{
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			// 存在しないユーザーとパスワード不一致は区別せずに返す
			if errors.Is(err, authservice.ErrUserNotFound) || errors.Is(err, authservice.ErrInvalidPassword) {
				respond.SafeError(w, http.StatusUnauthorized, errors.New("invalid credentials"))
			} else {
				respond.SafeError(w, http.StatusInternalServerError, err)
			}
			logger.Warn("login failed",
				slog.String("username", req.Username),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			return
		}

		logger.Info("login successful",
			slog.String("username", req.Username),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		respond.JSON(w, http.StatusOK, tokenResponse{Token: token})
	}
}
