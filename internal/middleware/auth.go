package middleware

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=middleware_test

import (
	"net/http"
	"strings"
	"sync"

	"github.com/2beens/goalprogress/internal/telemetry/tracing"
	"github.com/2beens/goalprogress/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const APIKeyHeader = "X-API-Key"

type keyChecker interface {
	Check(key string) bool
}

// BcryptKeyChecker checks API keys against a bcrypt hash. Accepted keys are
// remembered, since a bcrypt comparison costs tens of milliseconds.
type BcryptKeyChecker struct {
	hash     string
	accepted sync.Map
}

func NewBcryptKeyChecker(hash string) *BcryptKeyChecker {
	return &BcryptKeyChecker{
		hash: hash,
	}
}

func (c *BcryptKeyChecker) Check(key string) bool {
	if key == "" || c.hash == "" {
		return false
	}
	if _, ok := c.accepted.Load(key); ok {
		return true
	}
	if !pkg.KeyMatchesHash(key, c.hash) {
		return false
	}
	c.accepted.Store(key, struct{}{})
	return true
}

type AuthMiddlewareHandler struct {
	keyChecker           keyChecker
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(keyChecker keyChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		keyChecker: keyChecker,
		allowedPaths: map[string]bool{
			"/":        true,
			"/health":  true,
			"/version": true,
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get(APIKeyHeader)
			if apiKey == "" {
				log.Tracef("[missing api key] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-api-key")
				return
			}

			if !h.keyChecker.Check(apiKey) {
				log.Tracef("[invalid api key] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-api-key")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
