package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stakesapp/stakes-platform-poc/pkg/contracts/events"

	"github.com/stakesapp/stakes-platform-poc/internal/resolution/consumer"
	"github.com/stakesapp/stakes-platform-poc/internal/resolution/pubsub"
	"github.com/stakesapp/stakes-platform-poc/internal/resolution/repository"
	sharedcache "github.com/stakesapp/stakes-platform-poc/internal/shared/cache"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/config"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/db"
	skafka "github.com/stakesapp/stakes-platform-poc/internal/shared/kafka"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	repo := repository.NewPostgresRepo(pg)

	// Configura o consumer Kafka (consumer group resolution-worker)
	reader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicStakeResolved, "resolution-worker")
	defer reader.Close()

	var dlqWriter *skafka.Writer
	if cfg.TopicStakeResolvedDLQ != "" {
		dlqWriter = skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicStakeResolvedDLQ)
		defer dlqWriter.Close()
	}

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "resolution_messages_consumed_total", Help: "mensagens consumidas"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "resolution_db_writes_total", Help: "escritas no banco"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "resolution_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persist, errorsBy)

	// Broadcaster para publicar resoluções no Redis Pub/Sub (usado pelo stakes-service/ws)
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	// Instancia o processor, conectando callbacks de métricas e broadcast
	proc := &consumer.Processor{
		Log:        log,
		Reader:     reader,
		Repo:       repo,
		DLQ:        dlqWriter,
		OnConsumed: func() { consumed.Inc() },
		OnPersist:  func() { persist.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após persistir, envia a resolução para o WebSocket via Redis Pub/Sub
		OnAfterPersist: func(ev events.StakeResolved) {
			msg := pubsub.WSUpdate{StakeID: ev.StakeID, Payload: ev}
			b, _ := json.Marshal(msg)

			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := broadcaster.Publish(ctx, pubsub.ChannelStakeBroadcast, b); err != nil {
				log.Warn("ws broadcast publish failed", zap.Error(err))
			}
		},
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("resolution-worker started", zap.String("consume", cfg.TopicStakeResolved))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("resolution-worker stopped")
}
