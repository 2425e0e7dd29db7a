package handlers

import (
	"net/http"

	"feedback-analytics/internal/middleware"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// --- GET /user/me ---

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
		"author":   user.AuthorName(),
	})
}
