package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/catalog-service/internal/metrics"
)

// Metrics пишет catalog_http_* по шаблону маршрута chi (например, /items/{id}),
// чтобы не раздувать кардинальность сырыми путями.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}

			metrics.ObserveHTTP(r.Method, route, strconv.Itoa(sw.Status()), time.Since(start))
		})
	}
}
