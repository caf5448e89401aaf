package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sigortaci/acente-api/internal/config"
	"github.com/sigortaci/acente-api/pkg/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour, time.Hour)
	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserRole))
	})

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if w := serve(r, req); w.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.code, w.Code)
		}
	}

	refresh, _ := jwtManager.GenerateRefreshToken(uuid.New())
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token accepted as access token")
	}

	access, _ := jwtManager.GenerateAccessToken(uuid.New(), "a@b.c", "staff")
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	if w := serve(r, req); w.Code != http.StatusOK || w.Body.String() != "staff" {
		t.Fatalf("expected 200 staff, got %d %s", w.Code, w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set(ContextUserRole, c.GetHeader("X-Role"))
	}, RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Role", "staff")
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	req.Header.Set("X-Role", "admin")
	if w := serve(r, req); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRateLimiterPerUser(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Requests: 2, Window: time.Hour})
	defer rl.Stop()

	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		if id := c.GetHeader("X-User"); id != "" {
			c.Set(ContextUserID, uuid.MustParse(id))
		}
	}, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	user := uuid.New().String()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User", user)
		if w := serve(r, req); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User", user)
	w := serve(r, req)
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.Header.Set("X-User", uuid.New().String())
	if w := serve(r, other); w.Code != http.StatusOK {
		t.Fatalf("another user should have its own bucket, got %d", w.Code)
	}
}

func TestLoggerMiddlewareLogsErrors(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(LoggerMiddleware(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(http.ErrBodyNotAllowed)
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := serve(r, req)

	if w.Header().Get(RequestIDHeader) != "req-1" {
		t.Fatalf("request id not echoed")
	}
	entries := logs.FilterField(zap.String("request_id", "req-1")).All()
	if len(entries) != 2 {
		t.Fatalf("expected access line and error line, got %d", len(entries))
	}
	if entries[0].ContextMap()["status"] != int64(http.StatusInternalServerError) {
		t.Fatalf("unexpected status field %v", entries[0].ContextMap()["status"])
	}
}

func TestCORSWildcardOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{AllowedOrigins: []string{"*"}}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://panel.acente.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
	w := serve(r, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard origin, got %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Header().Get("Access-Control-Allow-Credentials") == "true" {
		t.Fatalf("wildcard origin must not allow credentials")
	}
}
