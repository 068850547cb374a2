package main

import (
	"context"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpadp "brewlend-backend/internal/adapter/http"
	"brewlend-backend/internal/adapter/middleware"
	"brewlend-backend/internal/adapter/repository/node"
	"brewlend-backend/internal/adapter/repository/snapshot"
	"brewlend-backend/internal/config"
	"brewlend-backend/internal/domain/order"
	"brewlend-backend/internal/infrastructure/cache"
	"brewlend-backend/internal/infrastructure/db"
	"brewlend-backend/internal/infrastructure/ledger"
	"brewlend-backend/internal/infrastructure/logging"
	"brewlend-backend/internal/usecase/lifecycle"
	"brewlend-backend/internal/usecase/orderindex"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	rpc, err := ledger.NewClient(ledger.Config{
		BaseURL:        cfg.LedgerRPCURL,
		ConnectTimeout: cfg.LedgerConnectTimeout,
	}, logger)
	if err != nil {
		logger.Fatal("ledger client", zap.Error(err))
	}

	orders := node.NewOrderRepository(rpc, cfg.FanoutLimit)
	tokens := node.NewTokenRepository(rpc)

	loanToken := common.HexToAddress(cfg.LoanTokenAddress)
	logger.Info("ledger gateway ready",
		zap.String("node", cfg.LedgerRPCURL),
		zap.String("loanToken", order.ShortAddress(order.CanonicalAddress(loanToken))),
	)

	// Snapshot store is best-effort: the API still serves (with live or
	// fallback data) when MySQL is down, it just loses warm starts.
	var snapStore *snapshot.Store
	if gdb, err := db.OpenGorm(cfg.MySQLDSN()); err != nil {
		logger.Warn("snapshot store disabled", zap.Error(err))
	} else if err := snapshot.NewStore(gdb).Migrate(); err != nil {
		logger.Warn("snapshot migrate failed, store disabled", zap.Error(err))
	} else {
		snapStore = snapshot.NewStore(gdb)
		logger.Info("snapshot store ready", zap.String("db", cfg.MySQLDB))
	}

	index := orderindex.New(orders, snapshotterOrNil(snapStore))
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := index.WarmStart(ctx); err != nil {
			logger.Warn("index warm start skipped", zap.Error(err))
		}
		cancel()
	}

	lc := lifecycle.NewUsecase(orders, rpc)

	h := httpadp.NewHandler(rpc)
	oh := httpadp.NewOrderHandler(orders, lc, index)
	bh := httpadp.NewBalanceHandler(tokens, loanToken)
	ph := httpadp.NewProxyHandler(rpc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/status", h.Status)
	api.GET("/orders", oh.ListOrders)
	api.GET("/orders/available", oh.ListAvailable)
	api.GET("/orders/:id", oh.GetOrder)
	api.GET("/orders/:id/repayment", oh.GetRepayment)
	api.GET("/my-orders", oh.MyOrders)
	api.GET("/balance", bh.GetBalance)
	api.POST("/blockchain/proxy", ph.Proxy)

	// Lifecycle submissions go through the idempotency layer so a retried
	// POST never dispatches a second ledger write.
	actions := api.Group("/orders/:id")
	if rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPingTimeout); err != nil {
		logger.Warn("redis unavailable, idempotency replay disabled", zap.Error(err))
	} else {
		ttl := time.Duration(cfg.IdempTTLSecs) * time.Second
		actions.Use(middleware.IdempotencyMiddleware(rdb, ttl, logger))
	}
	actions.POST("/fund", oh.SubmitAction("fund"))
	actions.POST("/repay", oh.SubmitAction("repay"))
	actions.POST("/cancel", oh.SubmitAction("cancel"))
	actions.POST("/claim", oh.SubmitAction("claim"))

	addr := ":" + cfg.AppPort
	logger.Info("listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// snapshotterOrNil keeps the typed-nil *Store out of the Snapshotter
// interface so the index can do a plain nil check.
func snapshotterOrNil(s *snapshot.Store) orderindex.Snapshotter {
	if s == nil {
		return nil
	}
	return s
}
