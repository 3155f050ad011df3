package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	platredis "tollgate/internal/platform/redis"
)

// RateLimit applies a fixed-window per-client limit backed by Redis. When the
// client is nil (Redis not configured) or Redis is unreachable the middleware
// fails open; availability of the toll lane beats strict limiting.
func RateLimit(client *platredis.Client, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := "ratelimit:" + clientKey(r) + ":" + strconv.FormatInt(time.Now().Unix()/int64(window.Seconds()), 10)
			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				logger.WarnContext(r.Context(), "rate limit check failed, failing open", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(r.Context(), key, window)
			}
			if count > int64(limit) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
