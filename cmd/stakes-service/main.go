package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/stakesapp/stakes-platform-poc/internal/shared/cache"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/config"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/db"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/kafka"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/logger"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/metrics"
	scache "github.com/stakesapp/stakes-platform-poc/internal/stakes/cache"
	shttp "github.com/stakesapp/stakes-platform-poc/internal/stakes/http"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/judge"
	kpub "github.com/stakesapp/stakes-platform-poc/internal/stakes/producer"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/registry"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/repo"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/wager"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/workflow"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/ws"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// Postgres: journal durável anexado ao core em memória
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	// Redis: cache do dashboard + pub/sub do hub WebSocket
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()
	log.Info("redis connected")

	// Kafka writers: stake_created e stake_resolved
	createdWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicStakeCreated)
	defer createdWriter.Close()
	resolvedWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicStakeResolved)
	defer resolvedWriter.Close()
	log.Info("kafka writers ready",
		zap.String("created", cfg.TopicStakeCreated),
		zap.String("resolved", cfg.TopicStakeResolved),
	)

	// Métricas do serviço
	stakesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stakes_created_total", Help: "stakes criadas"})
	verifResolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "verifications_resolved_total", Help: "verificações resolvidas por resultado"}, []string{"result"})
	verifFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "verification_failures_total", Help: "falhas de verificação por estágio"}, []string{"stage"})
	prometheus.MustRegister(stakesCreated, verifResolved, verifFailed)

	// Core: registry + seletor + controller com o juiz externo como capability
	reg := registry.New()
	sel := wager.NewSelector(wager.Policy{Min: cfg.WagerMin, Max: cfg.WagerMax, Step: cfg.WagerStep})
	ctrl := workflow.NewController(log, reg, sel, judge.New(cfg.JudgeURL), cfg.VerifyTimeout)
	ctrl.AttachJournal(repo.NewPostgres(pg))
	ctrl.AttachPublisher(kpub.NewKafkaPublisher(createdWriter, resolvedWriter))

	// Hub WebSocket alimentado pelo canal Redis (broadcast do resolution-worker)
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(context.Background(), rdb, hub)

	api := &shttp.API{
		Log:   log,
		Ctrl:  ctrl,
		Cache: scache.New(rdb),
		Hub:   hub,

		OnCreated:      func() { stakesCreated.Inc() },
		OnResolved:     func(result string) { verifResolved.WithLabelValues(result).Inc() },
		OnVerifyFailed: func(stage string) { verifFailed.WithLabelValues(stage).Inc() },
	}

	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health em porta separada
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("stakes-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
