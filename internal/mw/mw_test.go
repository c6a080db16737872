package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/BrianDuong3003/Room-Booking-System/internal/auth"
	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "user": c.GetString(CtxUserID)})
	})
	r.GET("/probe", chain...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BurstExhaustion(t *testing.T) {
	r := newTestRouter(RateLimiter(rate.Limit(1), 3))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, "").Code, "request %d within burst", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
}

func TestRateLimiter_PerIP(t *testing.T) {
	r := newTestRouter(RateLimiter(rate.Limit(1), 1))

	doFrom := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, doFrom("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, doFrom("10.0.0.1"))
	// A different client has its own bucket.
	assert.Equal(t, http.StatusOK, doFrom("10.0.0.2"))
}

func TestRequireAuth(t *testing.T) {
	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	r := newTestRouter(RequireAuth(issuer))

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "not-a-jwt").Code)
	})

	t.Run("valid token passes identity through", func(t *testing.T) {
		token, err := issuer.Issue(&model.User{ID: "usr1", Email: "a@hcmut.edu.vn", Role: model.RoleUser})
		require.NoError(t, err)

		w := get(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "usr1")
	})
}

func TestRequireAdmin(t *testing.T) {
	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	r := newTestRouter(RequireAuth(issuer), RequireAdmin())

	userToken, err := issuer.Issue(&model.User{ID: "usr1", Role: model.RoleUser})
	require.NoError(t, err)
	adminToken, err := issuer.Issue(&model.User{ID: "adm1", Role: model.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, userToken).Code)
	assert.Equal(t, http.StatusOK, get(r, adminToken).Code)
}

func TestCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := cache.New(time.Minute, time.Minute)
	hits := 0
	r := gin.New()
	r.GET("/probe", Cache(store, time.Minute), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})

	first := get(r, "")
	second := get(r, "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String(), "second response served from cache")
	assert.Equal(t, 1, hits)

	// Authorized requests bypass the cache entirely.
	issuerHit := get(r, "some-token")
	assert.Equal(t, http.StatusOK, issuerHit.Code)
	assert.Equal(t, 2, hits)
}
