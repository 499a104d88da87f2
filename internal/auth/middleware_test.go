package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/czaloom/mental-health-iot-example/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func get(h http.Handler, path string, hdr map[string]string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestMiddleware_ModeNonePassesThrough(t *testing.T) {
	h := Middleware(config.AuthConfig{Mode: "none"}, okHandler())
	if code := get(h, "/api/v1/alerts", nil); code != http.StatusOK {
		t.Fatalf("mode none: got %d, want 200", code)
	}
}

func TestMiddleware_RejectsMissingKey(t *testing.T) {
	t.Setenv("STRESSWATCH_API_KEY", "secret")
	h := Middleware(config.AuthConfig{Mode: "apikey", KeyEnv: "STRESSWATCH_API_KEY"}, okHandler())

	if code := get(h, "/api/v1/alerts", nil); code != http.StatusUnauthorized {
		t.Errorf("missing key: got %d, want 401", code)
	}
	if code := get(h, "/api/v1/alerts", map[string]string{"x-api-key": "wrong"}); code != http.StatusUnauthorized {
		t.Errorf("wrong key: got %d, want 401", code)
	}
}

func TestMiddleware_AcceptsValidKey(t *testing.T) {
	t.Setenv("STRESSWATCH_API_KEY", "secret")
	h := Middleware(config.AuthConfig{Mode: "apikey", KeyEnv: "STRESSWATCH_API_KEY"}, okHandler())

	if code := get(h, "/api/v1/alerts", map[string]string{"x-api-key": "secret"}); code != http.StatusOK {
		t.Fatalf("valid key: got %d, want 200", code)
	}
}

func TestMiddleware_CustomHeader(t *testing.T) {
	t.Setenv("STRESSWATCH_API_KEY", "secret")
	cfg := config.AuthConfig{Mode: "apikey", KeyEnv: "STRESSWATCH_API_KEY", Header: "x-stresswatch-token"}
	h := Middleware(cfg, okHandler())

	if code := get(h, "/api/v1/alerts", map[string]string{"x-stresswatch-token": "secret"}); code != http.StatusOK {
		t.Errorf("custom header: got %d, want 200", code)
	}
	if code := get(h, "/api/v1/alerts", map[string]string{"x-api-key": "secret"}); code != http.StatusUnauthorized {
		t.Errorf("default header with custom config: got %d, want 401", code)
	}
}

func TestMiddleware_HealthIsExempt(t *testing.T) {
	t.Setenv("STRESSWATCH_API_KEY", "secret")
	h := Middleware(config.AuthConfig{Mode: "apikey", KeyEnv: "STRESSWATCH_API_KEY"}, okHandler())

	if code := get(h, "/api/v1/health", nil); code != http.StatusOK {
		t.Fatalf("health probe: got %d, want 200", code)
	}
}

func TestMiddleware_EmptyKeyDisablesAuth(t *testing.T) {
	h := Middleware(config.AuthConfig{Mode: "apikey", KeyEnv: "STRESSWATCH_UNSET_KEY"}, okHandler())
	if code := get(h, "/api/v1/alerts", nil); code != http.StatusOK {
		t.Fatalf("empty key: got %d, want 200", code)
	}
}
