package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newJWT(t *testing.T, secret string) *utils.JWTUtil {
	t.Helper()
	ju, err := utils.NewJWTUtil(config.JWTConfig{Secret: secret, AccessTTL: time.Hour, ResetTTL: time.Hour})
	require.NoError(t, err)
	return ju
}

// newProtectedRouter mounts GET /protected behind the authenticator and, if
// roles are given, the role authorizer.
func newProtectedRouter(jwtUtil *utils.JWTUtil, roles ...model.Role) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuthMiddleware(jwtUtil, discardLogger())}
	if len(roles) > 0 {
		handlers = append(handlers, RoleMiddleware(discardLogger(), roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": identity.UserID, "role": identity.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware_Valid(t *testing.T) {
	jwtUtil := newJWT(t, "secret")
	token, err := jwtUtil.GenerateToken("user-1", model.RoleStudent)
	require.NoError(t, err)

	w := doGet(newProtectedRouter(jwtUtil), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["id"])
	assert.Equal(t, "student", body["role"])
}

func TestJWTAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	jwtUtil := newJWT(t, "secret")
	token, _ := jwtUtil.GenerateToken("user-1", model.RoleStudent)

	w := doGet(newProtectedRouter(jwtUtil), "bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_RejectionsLookTheSame(t *testing.T) {
	jwtUtil := newJWT(t, "secret")
	forged, _ := newJWT(t, "other").GenerateToken("user-1", model.RoleAdmin)
	reset, _ := jwtUtil.GenerateResetToken("user-1")
	expiredUtil, err := utils.NewJWTUtil(config.JWTConfig{Secret: "secret", AccessTTL: -time.Minute})
	require.NoError(t, err)
	expired, _ := expiredUtil.GenerateToken("user-1", model.RoleStudent)
	valid, _ := jwtUtil.GenerateToken("user-1", model.RoleStudent)

	cases := map[string]string{
		"missing":      "",
		"no scheme":    valid,
		"basic scheme": "Basic " + valid,
		"extra parts":  "Bearer " + valid + " extra",
		"empty token":  "Bearer ",
		"garbage":      "Bearer not-a-jwt",
		"forged":       "Bearer " + forged,
		"expired":      "Bearer " + expired,
		"reset token":  "Bearer " + reset,
	}

	r := newProtectedRouter(jwtUtil)
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := doGet(r, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
		})
	}
}

func TestAuthenticate_Reasons(t *testing.T) {
	jwtUtil := newJWT(t, "secret")

	_, err := Authenticate(jwtUtil, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, "missing_header", rejectionReason(err))

	_, err = Authenticate(jwtUtil, "Token abc")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, "malformed_header", rejectionReason(err))

	forged, _ := newJWT(t, "other").GenerateToken("user-1", model.RoleAdmin)
	_, err = Authenticate(jwtUtil, "Bearer "+forged)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
	assert.Equal(t, "bad_signature", rejectionReason(err))
}

func TestRoleMiddleware(t *testing.T) {
	jwtUtil := newJWT(t, "secret")
	tests := []struct {
		name    string
		role    model.Role
		allowed []model.Role
		want    int
	}{
		{"instructor on instructor route", model.RoleInstructor, []model.Role{model.RoleInstructor}, http.StatusOK},
		{"admin on instructor route", model.RoleAdmin, []model.Role{model.RoleInstructor}, http.StatusForbidden},
		{"student on instructor route", model.RoleStudent, []model.Role{model.RoleInstructor}, http.StatusForbidden},
		{"student on shared route", model.RoleStudent, []model.Role{model.RoleInstructor, model.RoleStudent}, http.StatusOK},
		{"portfolio on admin route", model.RolePortfolio, []model.Role{model.RoleAdmin}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwtUtil.GenerateToken("user-1", tt.role)
			require.NoError(t, err)

			w := doGet(newProtectedRouter(jwtUtil, tt.allowed...), "Bearer "+token)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRoleMiddleware_WithoutAuthenticator(t *testing.T) {
	r := gin.New()
	r.GET("/protected", AdminMiddleware(discardLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doGet(r, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(Identity{Role: model.RoleAdmin}, model.RoleAdmin))
	assert.ErrorIs(t, Authorize(Identity{Role: model.RoleAdmin}, model.RoleInstructor, model.RoleStudent), ErrForbidden)
	assert.ErrorIs(t, Authorize(Identity{Role: model.RoleAdmin}), ErrForbidden)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDHeader))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
