package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	assistantapp "github.com/dwikikusuma/bookverse/internal/assistant/app"
	"github.com/dwikikusuma/bookverse/internal/assistant/infra/httpchat"
	"github.com/dwikikusuma/bookverse/internal/assistant/infra/rules"

	cartapp "github.com/dwikikusuma/bookverse/internal/cart/app"

	catalogapp "github.com/dwikikusuma/bookverse/internal/catalog/app"
	cgrpc "github.com/dwikikusuma/bookverse/internal/catalog/grpc"
	"github.com/dwikikusuma/bookverse/internal/catalog/infra/httpsource"
	"github.com/dwikikusuma/bookverse/internal/catalog/infra/sample"

	checkoutapp "github.com/dwikikusuma/bookverse/internal/checkout/app"
	checkoutgrpc "github.com/dwikikusuma/bookverse/internal/checkout/grpc"
	checkoutadapter "github.com/dwikikusuma/bookverse/internal/checkout/infra/adapter"

	orderapp "github.com/dwikikusuma/bookverse/internal/order/app"
	orderstore "github.com/dwikikusuma/bookverse/internal/order/infra/badgerstore"

	recommendapp "github.com/dwikikusuma/bookverse/internal/recommend/app"
	recommendgrpc "github.com/dwikikusuma/bookverse/internal/recommend/grpc"

	userapp "github.com/dwikikusuma/bookverse/internal/user/app"
	userstore "github.com/dwikikusuma/bookverse/internal/user/infra/badgerstore"

	"github.com/dwikikusuma/bookverse/internal/gateway"
	"github.com/dwikikusuma/bookverse/internal/session"
	"github.com/dwikikusuma/bookverse/pkg/badgerdb"
	"github.com/dwikikusuma/bookverse/pkg/breaker"
	"github.com/dwikikusuma/bookverse/pkg/config"
	"github.com/dwikikusuma/bookverse/pkg/grpcjson"
	"github.com/dwikikusuma/bookverse/pkg/logger"
	"github.com/dwikikusuma/bookverse/pkg/shutdown"
)

const shutdownBudget = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background(), log)
	defer cancel()

	db, err := badgerdb.Open(badgerdb.Config{Path: cfg.Store.Path, InMemory: cfg.Store.InMemory}, log)
	if err != nil {
		log.Error("store open failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("store close failed", slog.Any("err", err))
		}
	}()

	breakerCfg := func(name string) breaker.Config {
		return breaker.Config{Name: name, Failures: cfg.Breaker.Failures, OpenTimeout: cfg.Breaker.OpenTimeout}
	}

	// Catalog
	var supplier catalogapp.Supplier
	if cfg.Catalog.URL != "" {
		supplier = httpsource.New(httpsource.Options{
			URL:     cfg.Catalog.URL,
			Timeout: cfg.Catalog.Timeout,
			Breaker: breakerCfg("catalog"),
		}, log)
	}
	catalogSvc := catalogapp.NewService(supplier, sample.Books(), log)

	refreshCtx, refreshCancel := context.WithTimeout(ctx, cfg.Catalog.Timeout)
	items, _ := catalogSvc.Refresh(refreshCtx)
	refreshCancel()
	log.Info("catalog loaded", slog.Int("items", len(items)), slog.Bool("degraded", catalogSvc.Degraded()))

	// Users and orders
	userRepo := userstore.NewUserRepo(db)
	userSvc := userapp.NewService(userRepo, userapp.NewBcryptHasher(), log)
	orderSvc := orderapp.NewRecorder(orderstore.NewOrderRepo(userRepo))

	// Sessions, cart, checkout
	sessions := session.NewStore(session.WithIdleTTL(cfg.Session.IdleTTL))
	cartSvc := cartapp.NewService(sessions, catalogSvc)

	cartReader := checkoutadapter.NewSessionCartReader(sessions)
	catalogReader := checkoutadapter.NewCatalogServiceReader(catalogSvc)
	checkoutSvc := checkoutapp.NewService(sessions, cartReader, catalogReader, orderSvc, 10, log)

	// Recommendations and assistant
	recommendSvc := recommendapp.NewService(userSvc, catalogSvc, cfg.Recommend.Limit, log)

	var chat assistantapp.Client = rules.New(catalogSvc)
	if cfg.Chat.URL != "" {
		chat = httpchat.New(httpchat.Options{
			URL:     cfg.Chat.URL,
			Timeout: cfg.Chat.Timeout,
			Breaker: breakerCfg("chat"),
		}, log)
	}
	assistantSvc := assistantapp.NewService(chat, sessions, userSvc, log)

	handler := gateway.NewRouter(gateway.Deps{
		Catalog:   catalogSvc,
		Users:     userSvc,
		Sessions:  sessions,
		Cart:      cartSvc,
		Checkout:  checkoutSvc,
		Orders:    orderSvc,
		Recommend: recommendSvc,
		Assistant: assistantSvc,
	}, gateway.DefaultOptions(), log)

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Chat.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("listen failed", slog.Any("err", err), slog.String("addr", grpcAddr))
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(grpc.ForceServerCodec(grpcjson.Codec{}))
	cgrpc.Register(grpcServer, cgrpc.NewServer(catalogSvc))
	recommendgrpc.Register(grpcServer, recommendgrpc.NewServer(recommendSvc))
	checkoutgrpc.Register(grpcServer, checkoutgrpc.NewServer(checkoutSvc))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http starting", slog.String("addr", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("grpc starting", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.Session.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.CleanupExpired(); n > 0 {
					log.Info("expired sessions removed", slog.Int("count", n), slog.Int("live", sessions.Len()))
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownBudget)
		defer stopCancel()

		if err := httpServer.Shutdown(stopCtx); err != nil {
			log.Error("http shutdown error", slog.Any("err", err))
		}

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()

		select {
		case <-stopCtx.Done():
			log.Warn("graceful stop timeout, forcing stop")
			grpcServer.Stop()
		case <-stopped:
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", slog.Any("err", err))
	}
	log.Info("bye")
}
