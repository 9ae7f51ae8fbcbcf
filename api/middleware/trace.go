package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/dkempe/inventory-backend/pkg/logger"
	"github.com/dkempe/inventory-backend/pkg/tracing"
)

// Trace extracts the inbound trace context (or starts a fresh one) and opens
// a server span per request, so work continued over the event channel can be
// correlated with the originating request.
func Trace(logg *logger.Logger, serviceName string) func(http.Handler) http.Handler {
	tracer := tracing.Tracer(serviceName)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			if traceID := tracing.TraceID(ctx); traceID != "" {
				w.Header().Set(tracing.HeaderTraceID, traceID)
				if logg != nil {
					ctx = logg.WithTraceID(ctx, traceID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
