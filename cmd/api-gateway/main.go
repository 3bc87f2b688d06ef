package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/stakesapp/stakes-platform-poc/internal/shared/config"
	"github.com/stakesapp/stakes-platform-poc/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	stakesURL := os.Getenv("STAKES_URL")
	if stakesURL == "" {
		stakesURL = "http://localhost:8080"
	}
	judgeURL := os.Getenv("JUDGE_URL")
	if judgeURL == "" {
		judgeURL = "http://localhost:8081"
	}
	stakes := rp(stakesURL)
	judge := rp(judgeURL)

	mux := http.NewServeMux()

	// stakes (ex.: /api/stakes/* -> stakes-service)
	mux.Handle("/api/stakes/", http.StripPrefix("/api/stakes", stakes))

	// judge (ex.: /api/judge/* -> judge-simulator)
	mux.Handle("/api/judge/", http.StripPrefix("/api/judge", judge))

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
