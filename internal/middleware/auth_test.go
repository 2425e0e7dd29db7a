package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feedback-analytics/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "test-secret"

func issue(t *testing.T, user *models.User, ttl time.Duration) string {
	t.Helper()
	token, _, err := IssueToken(testSecret, user, ttl, time.Now())
	require.NoError(t, err)
	return token
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		w.Write([]byte(user.Role + ":" + user.Username))
	})
}

func TestIssueAndParseToken(t *testing.T) {
	now := time.Now()
	token, expiresAt, err := IssueToken(testSecret, &models.User{Username: "alice", Role: models.RoleStudent}, time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestIssueToken_UniqueIDs(t *testing.T) {
	user := &models.User{Username: "alice", Role: models.RoleStudent}
	a, err := ParseToken(testSecret, issue(t, user, time.Hour))
	require.NoError(t, err)
	b, err := ParseToken(testSecret, issue(t, user, time.Hour))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestParseToken_Rejects(t *testing.T) {
	student := &models.User{Username: "alice", Role: models.RoleStudent}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "x", Role: models.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badRole, _, err := IssueToken(testSecret, &models.User{Username: "eve", Role: "root"}, time.Hour, time.Now())
	require.NoError(t, err)

	tests := map[string]struct {
		secret, token string
	}{
		"wrong secret": {secret: "other", token: issue(t, student, time.Hour)},
		"expired":      {secret: testSecret, token: issue(t, student, -time.Minute)},
		"alg none":     {secret: testSecret, token: noneToken},
		"unknown role": {secret: testSecret, token: badRole},
		"garbage":      {secret: testSecret, token: "not.a.jwt"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tt.secret, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestJWTAuth(t *testing.T) {
	handler := JWTAuth(testSecret)(echoUser())
	token := issue(t, &models.User{Username: "alice", Role: models.RoleStudent}, time.Hour)

	const (
		malformed = "missing or malformed authorization header"
		invalid   = "invalid or expired token"
	)
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		wantErr    string
	}{
		{name: "valid", header: "Bearer " + token, wantStatus: http.StatusOK, wantBody: "student:alice"},
		{name: "missing", header: "", wantStatus: http.StatusUnauthorized, wantErr: malformed},
		{name: "wrong scheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized, wantErr: malformed},
		{name: "empty bearer", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantErr: malformed},
		{name: "bad token", header: "Bearer abc", wantStatus: http.StatusUnauthorized, wantErr: invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantErr != "" {
				assert.JSONEq(t, `{"error":"`+tt.wantErr+`"}`, rec.Body.String())
				return
			}
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := JWTAuth(testSecret)(RequireRole(models.RoleAdmin)(echoUser()))

	for _, tt := range []struct {
		role string
		want int
	}{
		{role: models.RoleAdmin, want: http.StatusOK},
		{role: models.RoleStudent, want: http.StatusForbidden},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, &models.User{Username: "u", Role: tt.role}, time.Hour))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, tt.want, rec.Code, tt.role)
	}
}

func TestRequireRole_WithoutSession(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireRole(models.RoleAdmin)(echoUser()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUser_NoSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetUser(req.Context()))

	ctx := WithUser(req.Context(), &models.User{Username: "bob"})
	assert.Equal(t, "bob", GetUser(ctx).Username)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hi"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/feedback", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/feedback", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, int64(2), fields["bytes"])
}
