package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/autofault/service-diagnostics-go/internal/account"
	"github.com/autofault/service-diagnostics-go/internal/admin"
	"github.com/autofault/service-diagnostics-go/internal/request"
	"github.com/autofault/service-diagnostics-go/internal/router"
	"github.com/autofault/service-diagnostics-go/internal/token"
	"github.com/autofault/service-diagnostics-go/internal/upload"
	"github.com/autofault/service-diagnostics-go/pkg/store"
	"github.com/autofault/service-diagnostics-go/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.InitLogger(utilities.LogConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-diagnostics")

	// open the two JSON document stores
	requestSvc := request.NewService(store.ConfigFromEnv("DIAGNOSTICS_DATA_FILE", "diagnostics_data.json"))
	accountSvc := account.NewService(store.ConfigFromEnv("DIAGNOSTICS_USERS_FILE", "users_data.json"))

	uploads, err := upload.NewStorage(upload.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("upload storage: %v", err)
	}

	issuer := token.NewIssuer(token.ConfigFromEnv())
	adminCfg := admin.ConfigFromEnv()
	if adminCfg.ExpertPassword == "" {
		sugar.Warn("EXPERT_PASSWORD not set; expert login is disabled")
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := router.RegisterRoutes(sugar, router.Deps{
		Requests: request.NewHandler(requestSvc, uploads, sugar),
		Accounts: account.NewHandler(accountSvc, issuer, sugar),
		Admin:    admin.NewHandler(adminCfg, requestSvc, accountSvc, issuer, sugar),
		Issuer:   issuer,
	})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8440"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// run server in background
	go func() {
		sugar.Infow("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
