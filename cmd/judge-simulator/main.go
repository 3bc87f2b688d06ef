package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	jdto "github.com/stakesapp/stakes-platform-poc/internal/judge-simulator/dto"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/config"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/logger"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/metrics"
)

var (
	// Métricas Prometheus para monitoramento dos julgamentos simulados
	verdictsIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "judge_verdicts_total",
		Help: "Total de vereditos emitidos por status",
	}, []string{"status"})
	captureFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "judge_capture_failures_total",
		Help: "Requisições sem evidência analisável",
	})
)

// Server estrutura principal do serviço
type server struct {
	log *zap.Logger
}

func newServer(log *zap.Logger) *server { return &server{log: log} }

// Handler de julgamento de evidência (mock de visão computacional).
// Simula a latência de análise e emite CONFIRMED/REJECTED; evidência
// ausente responde 422 (falha de captura, o chamador pode reenviar).
func (s *server) verifyHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req jdto.VerifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if req.EvidenceRef == "" {
		captureFailures.Inc()
		http.Error(w, "no evidence to analyze", http.StatusUnprocessableEntity)
		return
	}

	// latência simulada da "análise de imagem"
	time.Sleep(time.Duration(300+rand.Intn(1200)) * time.Millisecond)

	ok := rand.Intn(100) < 85 // 85% de confirmação

	resp := jdto.VerifyResp{
		Status:   jdto.StatusConfirmed,
		JudgeRef: "JUDGE-" + safePrefix(req.StakeID, 8),
	}
	if !ok {
		resp.Status = jdto.StatusRejected
		resp.Reason = "judge_reject_mock"
	}
	verdictsIssued.WithLabelValues(resp.Status).Inc()

	s.log.Info("verdict issued",
		zap.String("stakeId", req.StakeID),
		zap.String("status", resp.Status),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// evita panic se o StakeID for menor que 8 caracteres
func safePrefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(verdictsIssued, captureFailures)

	s := newServer(log)

	// ==== MUX PÚBLICO (HTTP principal): /judge/verify
	appMux := http.NewServeMux()
	appMux.HandleFunc("/judge/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.verifyHandler(w, r)
	})

	// metrics/health em porta separada; serviço não tem dependências externas
	metrics.StartMetricsServer(cfg.MetricsPort, func(context.Context) error { return nil })
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	addr := ":" + cfg.HTTPPort
	log.Info("judge-simulator listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, appMux); err != nil && err != http.ErrServerClosed {
		log.Fatal("judge-simulator failed", zap.Error(err))
	}
}
