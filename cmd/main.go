package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/vessel-ops/internal/auth"
	"github.com/ukydev/vessel-ops/internal/config"
	"github.com/ukydev/vessel-ops/internal/db"
	"github.com/ukydev/vessel-ops/internal/fuel"
	"github.com/ukydev/vessel-ops/internal/handlers"
	"github.com/ukydev/vessel-ops/internal/maintenance"
	"github.com/ukydev/vessel-ops/internal/metrics"
	"github.com/ukydev/vessel-ops/internal/middleware"
	"github.com/ukydev/vessel-ops/internal/notify"
)

const limiterSweepInterval = time.Minute

// collections are the storage dependencies of the API.
type collections struct {
	Users   db.UserCollection
	Vessels db.VesselCollection
	States  db.StateCollection
	Rules   db.RuleCollection
	Logs    db.LogCollection
}

func storeCollections(s *db.Store) collections {
	return collections{Users: s.Users, Vessels: s.Vessels, States: s.States, Rules: s.Rules, Logs: s.Logs}
}

// server is the assembled HTTP stack.
type server struct {
	handler http.Handler
	limiter *middleware.IPRateLimiter
	metrics *metrics.Metrics
	service *maintenance.Service
}

// newServer wires services, handlers and middleware. notifier may be nil.
func newServer(cfg *config.Config, catalog *config.Catalog, store collections, notifier maintenance.Notifier, ping func(context.Context) error) (*server, error) {
	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry, auth.WithRefreshExpiry(cfg.JWTRefreshExpiry))
	if err != nil {
		return nil, err
	}
	m := metrics.New()

	calc := maintenance.NewCalculator(catalog.Systems, catalog.SensorRegistry())
	opts := []maintenance.Option{maintenance.WithRecorder(m)}
	if notifier != nil {
		opts = append(opts, maintenance.WithNotifier(notifier))
	}
	svc := maintenance.NewService(store.Vessels, store.States, store.Rules, store.Logs, calc, opts...)

	estimator := fuel.NewEstimator(fuel.NewTable(cfg.FuelSpecsPath, cfg.FuelCacheTTL))

	routes := &handlers.Routes{
		Auth:    handlers.NewAuthHandler(authService, store.Users),
		Vessels: handlers.NewVesselHandler(svc),
		Rules:   handlers.NewRuleHandler(svc),
		Fuel:    handlers.NewFuelHandler(estimator),
		Health:  handlers.NewHealthHandler(ping),
		Metrics: m.Handler(),
	}
	am := middleware.NewAuthMiddleware(authService)
	mux := routes.Mux(am)
	limiter := middleware.NewIPRateLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst, middleware.WithTrustedProxy(cfg.TrustProxyHeaders))

	handler := middleware.Chain(mux,
		m.Middleware(mux),
		middleware.RequestLogger,
		limiter.Middleware,
		am.Authenticate,
	)
	return &server{handler: handler, limiter: limiter, metrics: m, service: svc}, nil
}

// connectNotifier dials the MQTT broker when one is configured. Failures are
// logged and the API runs without publishing.
func connectNotifier(cfg *config.Config) *notify.MQTTNotifier {
	if cfg.MQTTBroker == "" {
		log.Info("MQTT broker not configured, status publishing disabled")
		return nil
	}
	n, err := notify.Connect(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix)
	if err != nil {
		log.WithError(err).Warn("MQTT unavailable, continuing without status publishing")
		return nil
	}
	return n
}

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load system catalog")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	store := db.NewStore(client.Database(cfg.MongoDB))
	if err := store.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("Failed to create indexes")
	}

	var notifier maintenance.Notifier
	if n := connectNotifier(cfg); n != nil {
		defer n.Close()
		notifier = n
	}

	srv, err := newServer(cfg, catalog, storeCollections(store), notifier, func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to build server")
	}
	go srv.limiter.Run(ctx, limiterSweepInterval)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("Shutdown signal received, stopping server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	srv.service.Wait()
	log.Info("Server stopped")
}
