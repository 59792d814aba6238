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

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/auth"
	authrepo "github.com/ovaphlow/pitchfork/service-auth-go/internal/auth/repo"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/token"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-auth-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-auth-go")

	codec, err := token.NewCodec(token.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("token config: %v", err)
	}

	// init db
	db, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(migrateCtx, db.DB)
	cancelMigrate()
	if err != nil {
		sugar.Fatalf("db migrate: %v", err)
	}

	rdb, err := database.ConnectRedis(database.RedisConfigFromEnv())
	if err != nil {
		sugar.Fatalf("redis connect: %v", err)
	}

	mgr := auth.NewManager(userrepo.NewUserRepo(db), user.BcryptHasher{Cost: 12}, codec, authrepo.NewRefreshRepo(rdb))
	m := metrics.New()
	cookies := auth.CookieConfigFromEnv(codec.TTL(token.Access), codec.TTL(token.Refresh))
	if !cookies.Secure {
		sugar.Warn("cookies are not marked Secure; set APP_ENV=production behind TLS")
	}
	handler := router.RegisterRoutes(sugar, auth.NewHandler(mgr, cookies, sugar, m), m)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8431"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("service is running; press Ctrl+C to stop", "addr", addr)

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	if err := rdb.Close(); err != nil {
		sugar.Warnf("redis close failed: %v", err)
	}
	if err := db.Close(); err != nil {
		sugar.Warnf("db close failed: %v", err)
	}

	sugar.Info("goodbye")
}
