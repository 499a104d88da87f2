package auth

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/czaloom/mental-health-iot-example/internal/config"
)

// Middleware wraps an http.Handler with API key authentication according to
// cfg. With mode "none" (or an empty key) the handler is returned unchanged.
func Middleware(cfg config.AuthConfig, next http.Handler) http.Handler {
	if cfg.Mode != "apikey" {
		return next
	}
	key := cfg.Key()
	if key == "" {
		slog.Warn("api key auth enabled but key env is empty, auth disabled",
			"env", cfg.KeyEnv)
		return next
	}
	header := cfg.EffectiveHeader()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/health") {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get(header)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			slog.Warn("rejected unauthenticated request",
				"path", r.URL.Path, "remote", r.RemoteAddr)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid or missing API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
