package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func securedResponse(cfg SecurityConfig) http.Header {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecureWithConfig(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w.Header()
}

func TestSecureWithConfig_Defaults(t *testing.T) {
	h := securedResponse(DefaultSecurityConfig())

	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Contains(t, h.Get("Content-Security-Policy"), "frame-ancestors 'none'")
	assert.Contains(t, h.Get("Permissions-Policy"), "camera=()")
	assert.Empty(t, h.Get("Strict-Transport-Security"))
}

func TestSecureWithConfig_HSTS(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	assert.Equal(t, "max-age=31536000; includeSubDomains", securedResponse(cfg).Get("Strict-Transport-Security"))

	cfg.HSTSIncludeSubdomains = false
	cfg.HSTSPreload = true
	cfg.HSTSMaxAge = 600
	assert.Equal(t, "max-age=600; preload", securedResponse(cfg).Get("Strict-Transport-Security"))
}

func TestSecureWithConfig_OptionalPolicies(t *testing.T) {
	h := securedResponse(SecurityConfig{})

	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Empty(t, h.Get("Content-Security-Policy"))
	assert.Empty(t, h.Get("Permissions-Policy"))
}
