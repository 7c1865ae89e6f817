package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tenwave/medassist"
	"github.com/tenwave/medassist/api"
	"github.com/tenwave/medassist/common/logger"
	"github.com/tenwave/medassist/config"
)

var version = "dev"

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to the yaml config file")
		mode       = flag.String("mode", "http", "serve mode: http or mcp-stdio")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("load config failed, err: %v", err)
		os.Exit(1)
	}

	client, err := medassist.NewClient(cfg)
	if err != nil {
		logger.Errorf("create client failed, err: %v", err)
		os.Exit(1)
	}
	defer client.Close()

	switch *mode {
	case "mcp-stdio":
		runStdio(client)
	case "http":
		runHTTP(cfg, client)
	default:
		logger.Errorf("invalid mode %q (expected http or mcp-stdio)", *mode)
		os.Exit(1)
	}
}

func runStdio(client *medassist.Client) {
	// klog writes to stderr by default; stdout must stay clean for the
	// MCP framing.
	s := medassist.NewMCPServer(client, version)
	if err := mcpserver.ServeStdio(s); err != nil {
		logger.Errorf("stdio server failed, err: %v", err)
		os.Exit(1)
	}
}

func runHTTP(cfg *config.Config, client *medassist.Client) {
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.New(client).Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	go janitor(runCtx, client)

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("listen failed, err: %v", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Infof("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("graceful shutdown failed: %v", err)
		_ = srv.Close()
	}
	logger.Infof("shutdown complete")
}

// janitor periodically drops sessions idle past their TTL.
func janitor(ctx context.Context, client *medassist.Client) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			client.CleanSessions()
		}
	}
}
