package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

type callerCtxKey struct{}

func withCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerCtxKey{}, caller)
}

// callerFrom достаёт инициатора, положенного authMiddleware. На защищённых маршрутах он есть всегда.
func callerFrom(ctx context.Context) (domain.Caller, bool) {
	c, ok := ctx.Value(callerCtxKey{}).(domain.Caller)
	return c, ok
}

// authMiddleware проверяет bearer-токен и кладёт domain.Caller в контекст запроса.
func authMiddleware(authUC usecase.AuthUC, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				WriteError(w, e.ErrMissingToken)
				return
			}

			claims, err := authUC.Authenticate(r.Context(), token)
			if err != nil {
				log.Debugf("authentication failed: %v", err)
				WriteError(w, err)
				return
			}

			caller := domain.NewCaller(claims.UserID, claims.Role, claims.TokenID, claims.ExpiresAt)
			next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), caller)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// requestLogger пишет метод, путь, статус и длительность каждого запроса.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			l := log.With(
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
			if status >= http.StatusInternalServerError {
				l.Warnf("request failed")
				return
			}
			l.Infof("request handled")
		})
	}
}
