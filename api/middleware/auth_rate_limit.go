package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/fueltrips-backend/api/responses"
	"github.com/angelmondragon/fueltrips-backend/internal/users"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/logger"
)

// maxAuthBody caps how much of a login/register body is buffered for the email check.
const maxAuthBody = 64 << 10

// RateLimitStore counts attempts for a scope inside a fixed window.
type RateLimitStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthRateLimitPolicy defines the throttling parameters for one auth endpoint.
type AuthRateLimitPolicy struct {
	Name       string
	Window     time.Duration
	IPLimit    int
	EmailLimit int
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.Window > 0 && (p.IPLimit > 0 || p.EmailLimit > 0)
}

func (p AuthRateLimitPolicy) scope(kind, value string) string {
	name := strings.ToLower(strings.TrimSpace(p.Name))
	if name == "" {
		name = "auth"
	}
	return name + ":" + kind + ":" + value
}

// AuthRateLimit enforces per-IP and per-email counters on login and register.
// A nil store disables throttling.
func AuthRateLimit(policy AuthRateLimitPolicy, store RateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.IPLimit > 0 {
				if ip := clientIP(r); ip != "" {
					if !check(ctx, w, logg, store, policy, "ip", ip, policy.IPLimit) {
						return
					}
				}
			}

			if policy.EmailLimit > 0 {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxAuthBody))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := users.NormalizeEmail(extractEmail(body)); email != "" {
					if !check(ctx, w, logg, store, policy, "email", hashValue(email), policy.EmailLimit) {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// check reports whether the request may continue, writing the error response when not.
func check(ctx context.Context, w http.ResponseWriter, logg *logger.Logger, store RateLimitStore, policy AuthRateLimitPolicy, kind, value string, limit int) bool {
	allowed, count, err := store.FixedWindowAllow(ctx, policy.scope(kind, value), int64(limit), policy.Window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return false
	}
	if allowed {
		return true
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          kind,
			"policy":         policy.Name,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.Window.Seconds()),
		})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	w.Header().Set("Retry-After", retryAfter(policy.Window))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
	return false
}

func retryAfter(window time.Duration) string {
	seconds := int(window.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		first, _, _ := strings.Cut(header, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
