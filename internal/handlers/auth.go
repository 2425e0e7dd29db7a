package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"feedback-analytics/internal/middleware"
	"feedback-analytics/internal/models"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type AuthHandler struct {
	jwtSecret     string
	adminPassword string
	sessionTTL    time.Duration
	clock         clockwork.Clock
	logger        *zap.Logger
}

func NewAuthHandler(jwtSecret, adminPassword string, sessionTTL time.Duration, clock clockwork.Clock, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		jwtSecret:     jwtSecret,
		adminPassword: adminPassword,
		sessionTTL:    sessionTTL,
		clock:         clock,
		logger:        logger,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// --- POST /auth/login ---

// Login issues a session token for a student or admin. Students are not
// checked against any directory; admins must present ADMIN_PASSWORD when
// one is configured.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username is required"})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if !models.IsValidRole(req.Role) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "role must be admin or student"})
		return
	}

	if req.Role == models.RoleAdmin && h.adminPassword != "" &&
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
		h.logger.Warn("rejected admin login", zap.String("username", req.Username))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	now := h.clock.Now()
	user := &models.User{Username: req.Username, Role: req.Role, LoginTime: now.UTC()}

	token, expiresAt, err := middleware.IssueToken(h.jwtSecret, user, h.sessionTTL, now)
	if err != nil {
		h.logger.Error("sign session token", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, models.AuthToken{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		User:      user,
	})
}
