package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/throttled/throttled/v2"

	"github.com/mergington/activities/server/config"
	"github.com/mergington/activities/server/mergington"
	"github.com/mergington/activities/server/service/middleware/ratelimit"
)

type errorHandler struct {
	logger kitlog.Logger
}

func (h *errorHandler) Handle(ctx context.Context, err error) {
	// get the request path
	path, _ := ctx.Value(kithttp.ContextKeyRequestPath).(string)
	logger := level.Info(kitlog.With(h.logger, "path", path))

	var ewi mergington.ErrWithInternal
	if errors.As(err, &ewi) {
		logger = kitlog.With(logger, "internal", ewi.Internal())
	}

	var ewlf mergington.ErrWithLogFields
	if errors.As(err, &ewlf) {
		logger = kitlog.With(logger, ewlf.LogFields()...)
	}

	var rle ratelimit.Error
	if errors.As(err, &rle) {
		res := rle.Result()
		logger.Log("err", "limit exceeded", "retry_after", res.RetryAfter)
	} else {
		logger.Log("err", err)
	}
}

// ServerEndpoints is a collection of RPC endpoints implemented by the
// activities API.
type ServerEndpoints struct {
	ListActivities endpoint.Endpoint
	SignUp         endpoint.Endpoint
	Unregister     endpoint.Endpoint
}

// MakeServerEndpoints initializes the complete activities API. Mutating
// endpoints share a rate limit quota keyed per operation.
func MakeServerEndpoints(svc mergington.Service, limitStore throttled.GCRAStore, limits config.LimitsConfig) ServerEndpoints {
	limiter := ratelimit.NewMiddleware(limitStore)
	quota := throttled.RateQuota{
		MaxRate:  throttled.PerMin(limits.MutationsPerMinute),
		MaxBurst: limits.MutationBurst,
	}

	return ServerEndpoints{
		ListActivities: makeListActivitiesEndpoint(svc),
		SignUp:         limiter.Limit("signup", quota)(makeSignUpEndpoint(svc)),
		Unregister:     limiter.Limit("unregister", quota)(makeUnregisterEndpoint(svc)),
	}
}

type serverHandlers struct {
	ListActivities http.Handler
	SignUp         http.Handler
	Unregister     http.Handler
}

func makeKitHandlers(e ServerEndpoints, opts []kithttp.ServerOption) *serverHandlers {
	newServer := func(e endpoint.Endpoint, decodeFn kithttp.DecodeRequestFunc) http.Handler {
		return kithttp.NewServer(e, decodeFn, encodeResponse, opts...)
	}
	return &serverHandlers{
		ListActivities: newServer(e.ListActivities, decodeListActivitiesRequest),
		SignUp:         newServer(e.SignUp, decodeSignUpRequest),
		Unregister:     newServer(e.Unregister, decodeUnregisterRequest),
	}
}

// MakeHandler creates an HTTP handler for the activities server endpoints.
func MakeHandler(svc mergington.Service, config config.MergingtonConfig, logger kitlog.Logger, limitStore throttled.GCRAStore) http.Handler {
	apiOptions := []kithttp.ServerOption{
		kithttp.ServerBefore(
			kithttp.PopulateRequestContext, // populate the request context with common fields
		),
		kithttp.ServerErrorHandler(&errorHandler{logger}),
		kithttp.ServerErrorEncoder(encodeError),
		kithttp.ServerAfter(
			kithttp.SetContentType("application/json; charset=utf-8"),
		),
	}

	e := MakeServerEndpoints(svc, limitStore, config.Limits)
	h := makeKitHandlers(e, apiOptions)

	r := mux.NewRouter()
	attachAPIRoutes(r, h)

	// The frontend catch-all is attached last so API routes take precedence.
	r.PathPrefix("/").Handler(ServeFrontend(config.Server.URLPrefix)).Name("root")

	addMetrics(r)

	return r
}

func attachAPIRoutes(r *mux.Router, h *serverHandlers) {
	r.Handle("/activities", h.ListActivities).Methods("GET").Name("list_activities")
	r.Handle("/activities/{name}/signup", h.SignUp).Methods("POST").Name("signup")
	r.Handle("/activities/{name}/unregister", h.Unregister).Methods("DELETE").Name("unregister")
}

// PrometheusMetricsHandler wraps the provided handler with prometheus metrics
// middleware and returns the resulting handler that should be mounted for that
// route.
func PrometheusMetricsHandler(name string, handler http.Handler) http.Handler {
	reg := prometheus.DefaultRegisterer
	registerOrExisting := func(coll prometheus.Collector) prometheus.Collector {
		if err := reg.Register(coll); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				return are.ExistingCollector
			}
			panic(err)
		}
		return coll
	}

	reqCnt := registerOrExisting(prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total number of HTTP requests made.",
			ConstLabels: prometheus.Labels{"handler": name},
		},
		[]string{"method", "code"},
	)).(*prometheus.CounterVec)

	reqDur := registerOrExisting(prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "The HTTP request latencies in seconds.",
			ConstLabels: prometheus.Labels{"handler": name},
			// Use default buckets, as they are suited for durations.
		},
		nil,
	)).(*prometheus.HistogramVec)

	// 1KB, 100KB, 1MB, 100MB, 1GB
	sizeBuckets := []float64{1024, 100 * 1024, 1024 * 1024, 100 * 1024 * 1024, 1024 * 1024 * 1024}

	resSz := registerOrExisting(prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem:   "http",
			Name:        "response_size_bytes",
			Help:        "The HTTP response sizes in bytes.",
			ConstLabels: prometheus.Labels{"handler": name},
			Buckets:     sizeBuckets,
		},
		nil,
	)).(*prometheus.HistogramVec)

	reqSz := registerOrExisting(prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem:   "http",
			Name:        "request_size_bytes",
			Help:        "The HTTP request sizes in bytes.",
			ConstLabels: prometheus.Labels{"handler": name},
			Buckets:     sizeBuckets,
		},
		nil,
	)).(*prometheus.HistogramVec)

	return promhttp.InstrumentHandlerDuration(reqDur,
		promhttp.InstrumentHandlerCounter(reqCnt,
			promhttp.InstrumentHandlerResponseSize(resSz,
				promhttp.InstrumentHandlerRequestSize(reqSz, handler))))
}

// addMetrics decorates each handler with prometheus instrumentation
func addMetrics(r *mux.Router) {
	walkFn := func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		route.Handler(PrometheusMetricsHandler(route.GetName(), route.GetHandler()))
		return nil
	}
	r.Walk(walkFn)
}
