package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/goalprogress/internal/config"
	"github.com/2beens/goalprogress/internal/connectors"
	"github.com/2beens/goalprogress/internal/db"
	"github.com/2beens/goalprogress/internal/goals"
	"github.com/2beens/goalprogress/internal/measurements"
	"github.com/2beens/goalprogress/internal/middleware"
	"github.com/2beens/goalprogress/internal/progress"
	"github.com/2beens/goalprogress/internal/telemetry/metrics"
	"github.com/2beens/goalprogress/internal/telemetry/tracing"
	"github.com/2beens/goalprogress/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	apiKeyHash  string

	aggregator   *progress.Aggregator
	tracker      *progress.Tracker
	notifier     *progress.RedisNotifier
	invalidation *progress.InvalidationListener

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	APIKeyHash              string
	PostgresUser            string
	PostgresPassword        string
	RedisPassword           string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         params.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("goalprogress", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0,
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "goal-progress", rdb)
	if err != nil {
		return nil, err
	}

	goalsRepo := goals.NewRepo(dbPool)
	measurementsRepo := measurements.NewRepo(dbPool)
	notifier := progress.NewRedisNotifier(rdb)

	aggregator := progress.NewAggregator(progress.NewAggregatorParams{
		Goals:          goalsRepo,
		Measurements:   measurementsRepo,
		Sources:        connectors.NewRepo(dbPool),
		Resolver:       progress.NewResolver(cfg.BodyFatMaxAge()),
		Cache:          progress.NewViewsCache(cfg.GoalViewsCacheSizeMB, cfg.GoalViewsCacheTTL()),
		Notifier:       notifier,
		MetricsManager: metricsManager,
	})

	tracker := progress.NewTracker(progress.NewTrackerParams{
		Goals:          goalsRepo,
		Measurements:   measurementsRepo,
		Cache:          aggregator,
		Publisher:      progress.NewChangePublisher(rdb),
		Notifier:       notifier,
		MetricsManager: metricsManager,
	})

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		apiKeyHash:  params.APIKeyHash,
		versionInfo: params.VersionInfo,

		aggregator:   aggregator,
		tracker:      tracker,
		notifier:     notifier,
		invalidation: progress.NewInvalidationListener(rdb, aggregator, metricsManager),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("goal-progress-router"))

	progressHandler := progress.NewHandler(s.aggregator, s.tracker, s.notifier)
	r.HandleFunc("/progress/users/{userId}/goals", progressHandler.HandleGoalViews).Methods("GET", "OPTIONS").Name("goal-views")
	r.HandleFunc("/progress/users/{userId}/goals", progressHandler.HandleCreateGoal).Methods("POST", "OPTIONS").Name("new-goal")
	r.HandleFunc("/progress/users/{userId}/goals/{goalId}", progressHandler.HandleGetGoal).Methods("GET", "OPTIONS").Name("get-goal")
	r.HandleFunc("/progress/users/{userId}/goals/{goalId}", progressHandler.HandleUpdateGoal).Methods("PUT", "OPTIONS").Name("update-goal")
	r.HandleFunc("/progress/users/{userId}/goals/{goalId}", progressHandler.HandleDeleteGoal).Methods("DELETE", "OPTIONS").Name("delete-goal")
	r.HandleFunc("/progress/users/{userId}/goals/{goalId}/measurements", progressHandler.HandleGoalMeasurements).Methods("GET", "OPTIONS").Name("goal-measurements")
	r.HandleFunc("/progress/users/{userId}/notifications", progressHandler.HandleNotifications).Methods("GET", "OPTIONS").Name("notifications")

	measurementsRouter := r.PathPrefix("/progress/users/{userId}/measurements").Subrouter()
	measurementsRouter.HandleFunc("", progressHandler.HandleRecordMeasurement).Methods("POST", "OPTIONS").Name("new-measurement")
	if s.config.MeasurementsRateLimitPerMin > 0 {
		measurementsRouter.Use(middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"measurements",
			s.config.MeasurementsRateLimitPerMin,
			s.metricsManager,
		))
	}

	r.HandleFunc("/health", s.handleHealth).Methods("GET").Name("health")
	r.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		middleware.NewBcryptKeyChecker(s.apiKeyHash),
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	var err error
	if pingErr := s.dbPool.Ping(ctx); pingErr != nil {
		err = multierr.Append(err, fmt.Errorf("postgres: %w", pingErr))
	}
	if pingErr := s.redisClient.Ping(ctx).Err(); pingErr != nil {
		err = multierr.Append(err, fmt.Errorf("redis: %w", pingErr))
	}
	if err != nil {
		log.Errorf("health check: %s", err)
		http.Error(w, "unhealthy", http.StatusServiceUnavailable)
		return
	}
	pkg.WriteTextResponseOK(w, "ok")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	// other instances publish their writes here, so their users' cached views
	// are dropped on this one too
	go func() {
		if err := s.invalidation.Run(ctx); err != nil {
			log.Errorf("goal data changed listener stopped: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var shutdownErr error
	if s.httpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.httpServer.Shutdown(ctx))
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.metricsHttpServer.Shutdown(ctx))
		log.Warnln("metrics server shut down")
	}
	if shutdownErr != nil {
		log.Errorf(" >>> failed to gracefully shutdown http servers: %s", shutdownErr)
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
