package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	appcfg "github.com/kapu/replayboard/internal/config"
	"github.com/kapu/replayboard/internal/httpapi"
	"github.com/kapu/replayboard/internal/obslog"
	"github.com/kapu/replayboard/internal/replaybuilder"
	"github.com/kapu/replayboard/internal/stream"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()

	deps, err := replaybuilder.New(cfg, logger)
	if err != nil {
		logger.Fatal("builder init error", zap.Error(err))
	}
	defer deps.Close()

	api := httpapi.NewServer(deps.Store, deps.Repo, deps.Renderer, cfg.UploadMaxBytes, logger)
	apiSrv := &fasthttp.Server{
		Handler:      api.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.ListenAddr))
		if err := apiSrv.ListenAndServe(cfg.ListenAddr); err != nil {
			logger.Fatal("api server error", zap.Error(err))
		}
	}()

	streamSrv := &http.Server{
		Addr:    cfg.StreamAddr,
		Handler: stream.NewServer(deps.Store, deps.Timing, logger).Handler(),
	}
	go func() {
		logger.Info("stream_listen", zap.String("addr", cfg.StreamAddr))
		if err := streamSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("stream server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = streamSrv.Shutdown(shutdownCtx)
	_ = apiSrv.ShutdownWithContext(shutdownCtx)
}
