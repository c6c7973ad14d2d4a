package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/riddim-exe/riddim/internal/tokenutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.DELETE("/protected", JwtAuthMiddleware("secret"), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("x-user-id"))
	})
	return r
}

func TestJwtAuthMiddleware(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)

	token, err := tokenutil.CreateAccessToken("admin", "secret", 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())

	req = httptest.NewRequest(http.MethodDelete, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJwtAuthMiddlewareWithoutSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/protected", JwtAuthMiddleware(""), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("x-user-id"))
	})

	claims := &tokenutil.AccessClaims{
		Subject: "attacker",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "attacker",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(""))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ADMIN_DISABLED"`)
	assert.NotContains(t, w.Body.String(), "attacker")
}
