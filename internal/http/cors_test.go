package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateCORSMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		enabled bool
		origins string
		wantNil bool
	}{
		{name: "disabled", enabled: false, origins: "https://dashboard.example.com", wantNil: true},
		{name: "enabled without origins", enabled: true, origins: "", wantNil: true},
		{name: "enabled with only separators", enabled: true, origins: " , ,", wantNil: true},
		{name: "enabled with only invalid origins", enabled: true, origins: "dashboard.example.com", wantNil: true},
		{name: "enabled with origins", enabled: true, origins: "https://dashboard.example.com", wantNil: false},
		{name: "enabled with wildcard", enabled: true, origins: "*", wantNil: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := createCORSMiddleware(tt.enabled, tt.origins, logger)
			if tt.wantNil {
				assert.Nil(t, middleware)
			} else {
				assert.NotNil(t, middleware)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		origins, rejected := parseOrigins("")
		assert.Nil(t, origins)
		assert.Nil(t, rejected)
	})

	t.Run("TrimsAndSkipsBlanks", func(t *testing.T) {
		origins, rejected := parseOrigins(" https://dashboard.example.com/ , ,http://localhost:3000 ")
		assert.Equal(t, []string{"https://dashboard.example.com", "http://localhost:3000"}, origins)
		assert.Nil(t, rejected)
	})

	t.Run("RejectsNonOrigins", func(t *testing.T) {
		origins, rejected := parseOrigins("https://ops.example.com,ftp://files.example.com,example.com,https://x.example.com/path")
		assert.Equal(t, []string{"https://ops.example.com"}, origins)
		assert.Equal(t, []string{"ftp://files.example.com", "example.com", "https://x.example.com/path"}, rejected)
	})

	t.Run("Wildcard", func(t *testing.T) {
		origins, _ := parseOrigins("*")
		assert.Equal(t, []string{"*"}, origins)
	})
}

func newCORSRouter(enabled bool) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	if middleware := createCORSMiddleware(enabled, "https://dashboard.example.com", logger); middleware != nil {
		router.Use(middleware)
	}
	router.GET("/v1/events", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
	})
	router.POST("/v1/events/:id/requeue", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestCORS_AllowedOriginGetsHeaders(t *testing.T) {
	router := newCORSRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://dashboard.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardAllowsAnyOrigin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	router.Use(createCORSMiddleware(true, "*", logger))
	router.GET("/v1/events", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Origin", "https://anywhere.example.org")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisabledAddsNoHeaders(t *testing.T) {
	router := newCORSRouter(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightForRequeue(t *testing.T) {
	router := newCORSRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/events/abc/requeue", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://dashboard.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}
