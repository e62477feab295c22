package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// AdminLoginRequest is the request body for POST /api/admin/login.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminMeResponse is the response for GET /api/admin/me.
type AdminMeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func handleAdminLogin(logger *slog.Logger, admin *AdminStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminLoginRequest
		if err := readValid(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		sess, err := admin.Login(r.Context(), req.Email, req.Password)
		if errors.Is(err, errInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			logger.Error("admin login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    sess.SessionID,
			Path:     "/",
			MaxAge:   int(7 * 24 * time.Hour / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		logger.Info("admin logged in", "admin_id", sess.AdminID)
		writeJSON(w, http.StatusOK, AdminMeResponse{ID: sess.AdminID, Email: sess.Email})
	}
}

func handleAdminMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := adminFrom(r)
		writeJSON(w, http.StatusOK, AdminMeResponse{ID: sess.AdminID, Email: sess.Email})
	}
}
