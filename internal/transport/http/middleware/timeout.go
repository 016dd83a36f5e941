package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/catalog-service/internal/pkg/log"
)

// Timeout ограничивает обработку запроса каталога сроком d (timeouts.service).
// Дедлайн вызывающего, если он уже есть, не продлевается. d<=0 - без ограничения.
//
// Если срок истёк до завершения обработчика, пишется предупреждение с маршрутом
// и бюджетом; сам ответ (обычно 504) формирует обработчик.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, ok := ctx.Deadline(); !ok {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}

			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.From(ctx).LogAttrs(ctx, slog.LevelWarn, "request deadline exceeded",
					slog.String("path", r.URL.Path),
					slog.Duration("budget", d),
				)
			}
		})
	}
}
