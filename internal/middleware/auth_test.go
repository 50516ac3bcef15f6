package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajedamilola/pharmalink/internal/middleware"
)

func signToken(t *testing.T, role string, verified bool) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      "2f5a1c1e-0000-0000-0000-000000000001",
		"role":     role,
		"verified": verified,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.GetJWTSecret())
	require.NoError(t, err)
	return token
}

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":      c.GetString("userID"),
			"userRole":    c.GetString("userRole"),
			"otpVerified": c.GetBool("otpVerified"),
		})
	})
	return r
}

func doRequest(r *gin.Engine, token string, viaCookie bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		if viaCookie {
			req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		} else {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	r := newTestRouter(middleware.RequireRole("pharmacy"))

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(r, "", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(r, "not-a-jwt", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unverified session is forbidden", func(t *testing.T) {
		w := doRequest(r, signToken(t, "pharmacy", false), false)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "OTP")
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		w := doRequest(r, signToken(t, "vendor", true), false)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("verified matching role passes via bearer", func(t *testing.T) {
		w := doRequest(r, signToken(t, "pharmacy", true), false)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userRole":"pharmacy"`)
	})

	t.Run("verified matching role passes via cookie", func(t *testing.T) {
		w := doRequest(r, signToken(t, "pharmacy", true), true)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub":      "2f5a1c1e-0000-0000-0000-000000000001",
			"role":     "pharmacy",
			"verified": true,
			"exp":      time.Now().Add(-time.Minute).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.GetJWTSecret())
		require.NoError(t, err)
		w := doRequest(r, token, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with wrong key is rejected", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub":      "2f5a1c1e-0000-0000-0000-000000000001",
			"role":     "pharmacy",
			"verified": true,
			"exp":      time.Now().Add(time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-key"))
		require.NoError(t, err)
		w := doRequest(r, token, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireVerified(t *testing.T) {
	r := newTestRouter(middleware.RequireVerified())

	t.Run("any verified role passes", func(t *testing.T) {
		for _, role := range []string{"pharmacy", "vendor", "admin"} {
			w := doRequest(r, signToken(t, role, true), false)
			assert.Equal(t, http.StatusOK, w.Code, role)
		}
	})

	t.Run("unverified session is forbidden", func(t *testing.T) {
		w := doRequest(r, signToken(t, "admin", false), false)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequireAuthenticated(t *testing.T) {
	r := newTestRouter(middleware.RequireAuthenticated())

	t.Run("unverified session passes", func(t *testing.T) {
		w := doRequest(r, signToken(t, "pharmacy", false), false)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"otpVerified":false`)
	})

	t.Run("verified session passes with the flag set", func(t *testing.T) {
		w := doRequest(r, signToken(t, "pharmacy", true), false)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"otpVerified":true`)
	})

	t.Run("missing token is still rejected", func(t *testing.T) {
		w := doRequest(r, "", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
