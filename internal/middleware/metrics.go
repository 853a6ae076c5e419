package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rpcDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "sofra_rpc_duration_seconds",
		Help:    "Duration of RPC calls by procedure and result code.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"procedure", "code"},
)

// MetricsInterceptor returns a Connect interceptor that records a
// duration histogram per procedure and result code. Scrape it from the
// /metrics endpoint.
func MetricsInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			rpcDuration.WithLabelValues(req.Spec().Procedure, code).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}
