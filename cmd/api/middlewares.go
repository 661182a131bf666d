package main

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/seralvarez/picstash/pkg/auth"
	"github.com/seralvarez/picstash/pkg/tracing"
)

// The authenticate middleware verifies the bearer token of the request (if
// any) and puts the resulting principal into the request context. A missing
// Authorization header is fine: the request simply proceeds anonymously and
// the service layer decides what an anonymous viewer may do. A present but
// invalid credential is rejected right away.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Indicate to any caches that the response may vary based on the
		// value of the Authorization header in the request.
		w.Header().Add("Vary", "Authorization")

		authorizationHeader := r.Header.Get("Authorization")
		if authorizationHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		// We expect the value of the Authorization header to be in the
		// format "Bearer <token>".
		headerParts := strings.Split(authorizationHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		principal, err := app.tokenizer.Parse(headerParts[1])
		if err != nil {
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		// The principal information will flow into the next HTTP handlers and
		// in each internal service that will receive the context.
		r = r.WithContext(auth.ContextSetPrincipal(r.Context(), principal))

		next.ServeHTTP(w, r)
	})
}

// The tracing middleware puts a request trace into the request context. If a
// trace is already present the middleware acts as a no-op.
func (app *application) tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqTrace := tracing.TraceFromRequestCtx(r)
		if reqTrace.ID == tracing.AnonymousID {
			r = tracing.NewTraceToRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}

// The logging middleware logs incoming requests and related outgoing
// responses, using the (possibly) enriched request trace.
func (app *application) logging(next http.Handler) http.Handler {

	// Wrap the returned middleware in the tracing middleware, that is, before
	// invoking the function call the tracing function logic.
	return app.tracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestTrace := tracing.TraceFromRequestCtx(r)

		if r.URL.Path == app.config.Metrics.MetricsEndpoint {
			next.ServeHTTP(w, r)
			return
		}

		ip, err := realIP(r)
		if err != nil {
			app.logger.Errorw("retrieving real IP",
				"id", requestTrace.ID,
				"err", err,
			)
		}

		app.logger.Infow("incoming request",
			"id", requestTrace.ID,
			"start_time", requestTrace.Start,
			"remote_addr", r.RemoteAddr,
			"real_ip", ip,
			"URL", r.URL,
			"method", r.Method,
		)

		next.ServeHTTP(w, r)

		// After the request handling produce another log. Note that some
		// values could be missing since it is the responsibility of other
		// handlers to enrich the trace. Logs are produced with different
		// severity based on the HTTP status of the response.
		end := time.Now().UTC()
		fields := []interface{}{
			"id", requestTrace.ID,
			"http_status", requestTrace.HttpStatus,
			"end_time", end,
			"duration_ms", end.Sub(requestTrace.Start).Milliseconds(),
		}
		if requestTrace.PrivateErr != nil {
			fields = append(fields, "private_err", requestTrace.PrivateErr)
		}

		switch requestTrace.HttpStatus / 100 {
		case 0, 1, 2, 3:
			app.logger.Infow("request completed", fields...)
		case 4:
			app.logger.Warnw("request completed", fields...)
		case 5:
			app.logger.Errorw("request error", fields...)
		}
	}))
}

// The metrics middleware registers metrics (scraped by Prometheus) of
// incoming HTTP requests: the count of the requests (divided by path and
// status) and the latency of the responses (divided by path). The scraping
// endpoint itself is not monitored.
func (app *application) metrics(next http.Handler) http.Handler {

	requestCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_http_request",
			Help: "Counter of HTTP requests.",
		},
		[]string{"path", "code"},
	)
	if err := prometheus.Register(requestCount); err != nil {
		panic(err)
	}

	requestsLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_http_requests_duration_milliseconds",
			Help:    "Histogram of latencies for HTTP requests",
			Buckets: []float64{0.1, 1, 10, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"path"},
	)
	if err := prometheus.Register(requestsLatency); err != nil {
		panic(err)
	}

	return app.tracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestTrace := tracing.TraceFromRequestCtx(r)
		next.ServeHTTP(w, r)

		path := r.URL.Path
		if path == app.config.Metrics.MetricsEndpoint {
			return
		}

		requestCount.WithLabelValues(path, fmt.Sprintf("%d", requestTrace.HttpStatus)).Inc()
		requestsLatency.WithLabelValues(path).Observe(float64(time.Since(requestTrace.Start).Milliseconds()))
	}))
}

// The recoverPanic middleware makes sure a panicking handler goroutine
// produces a 500 response and a closed connection instead of an empty reply.
func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				// The "Connection: close" header acts as a trigger to make
				// Go's HTTP server close the current connection after the
				// response has been sent.
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (app *application) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Warn any caches that the response may be different based on
		// different origins or requested methods.
		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Access-Control-Request-Method")

		// CORS requests have the Origin header set. If it is not present the
		// request is not CORS so proceed normally.
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		for _, trustedOrigin := range app.config.Cors.TrustedOrigins {
			if origin != trustedOrigin {
				continue
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			// Treat an OPTIONS request carrying the
			// Access-Control-Request-Method header as a CORS preflight.
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", "OPTIONS, GET, POST, PUT, DELETE")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func realIP(r *http.Request) (string, error) {
	addr := r.Header.Get("X-Real-Ip")
	if addr == "" {
		addr = r.Header.Get("X-Forwarded-For")
		if addr == "" {
			addr = r.RemoteAddr
		}
	}
	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "", err
	}
	return ip, nil
}
