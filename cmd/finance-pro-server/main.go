package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/finance-pro/internal/config"
	"github.com/iwvelando/finance-pro/internal/logging"
	"github.com/iwvelando/finance-pro/internal/server"
	"github.com/iwvelando/finance-pro/internal/session"
	"github.com/iwvelando/finance-pro/internal/store"
	"github.com/iwvelando/finance-pro/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	serverConf, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		serverConf.Address = *address
	}

	logger, err := logging.New(serverConf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	appConf, err := config.LoadConfiguration(serverConf.AppConfig)
	if err != nil {
		logger.Fatal("failed to load application configuration",
			zap.String("op", "main"),
			zap.String("path", serverConf.AppConfig),
			zap.Error(err),
		)
	}
	for _, warning := range appConf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, appConf.Store, logger)
	if err != nil {
		logger.Error("Snapshot store unavailable, changes will not be kept",
			zap.String("op", "main"),
			zap.String("backend", appConf.Store.Backend),
			zap.Error(err),
		)
		st = store.NewMemoryStore()
	}
	defer st.Close()

	sess := session.Open(ctx, st, appConf.Store.Key, appConf.Scenario.ToLedger(), logger,
		session.WithTimeout(appConf.Store.Timeout))

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           server.NewHandler(logger, sess, serverConf.BodySizeBytes(), version),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("op", "main"),
			zap.String("address", srv.Addr),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error",
				zap.String("op", "main"),
				zap.Error(err),
			)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
