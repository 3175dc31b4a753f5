package logger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedEngine(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), "req-42"))
		c.Next()
	})
	r.Use(GinMiddleware(log), Recovery(log))
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithRestaurantID(c.Request.Context(), "rest-7"))
		c.Next()
	})
	return r, logs
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
		msg    string
	}{
		{http.StatusOK, zapcore.InfoLevel, "Request served"},
		{http.StatusConflict, zapcore.WarnLevel, "Request rejected"},
		{http.StatusBadGateway, zapcore.ErrorLevel, "Request failed"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			r, logs := observedEngine(t)
			r.GET("/api/v1/sales/:id", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sales/abc?page=2", nil))

			entries := logs.FilterMessage(tt.msg).All()
			require.Len(t, entries, 1)
			e := entries[0]
			assert.Equal(t, tt.level, e.Level)
			fields := e.ContextMap()
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, "/api/v1/sales/abc", fields["path"])
			assert.Equal(t, "/api/v1/sales/:id", fields["route"])
			assert.Equal(t, "page=2", fields["query"])
			assert.Equal(t, "req-42", fields["request_id"])
			assert.Equal(t, "rest-7", fields["restaurant_id"])
		})
	}
}

func TestGinMiddleware_HandlerSeesLogger(t *testing.T) {
	r, logs := observedEngine(t)
	r.GET("/x", func(c *gin.Context) {
		FromContext(c.Request.Context()).Info("Inside handler")
		_ = c.Error(assert.AnError)
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	inside := logs.FilterMessage("Inside handler").All()
	require.Len(t, inside, 1)
	assert.Equal(t, "req-42", inside[0].ContextMap()["request_id"])

	served := logs.FilterMessage("Request served").All()
	require.Len(t, served, 1)
	assert.Equal(t, []any{assert.AnError.Error()}, served[0].ContextMap()["errors"])
}

func TestRecovery(t *testing.T) {
	r, logs := observedEngine(t)
	r.GET("/boom", func(c *gin.Context) { panic("ledger corrupted") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "ERR_INTERNAL", body.Error.Code)
	assert.Equal(t, "req-42", body.Error.RequestID)

	panics := logs.FilterMessage("Panic recovered").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "ledger corrupted", panics[0].ContextMap()["panic"])
	assert.Equal(t, 1, logs.FilterMessage("Request failed").Len())
}
