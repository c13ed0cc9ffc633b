package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"example.com/storefront/app/internal/config"
	"example.com/storefront/app/internal/infra/codec"
	"example.com/storefront/app/internal/infra/persistence"
	"example.com/storefront/app/internal/infra/security"
	infrashipping "example.com/storefront/app/internal/infra/shipping"
	apihttp "example.com/storefront/app/internal/interface/http"
	authuc "example.com/storefront/app/internal/usecase/auth"
	cartuc "example.com/storefront/app/internal/usecase/cart"
	categoryuc "example.com/storefront/app/internal/usecase/category"
	checkoutuc "example.com/storefront/app/internal/usecase/checkout"
	productuc "example.com/storefront/app/internal/usecase/product"
	"example.com/storefront/app/pkg/fetch"
	"example.com/storefront/app/pkg/logger"
)

func main() {
	sigCtx, closeApp := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer closeApp()

	_ = godotenv.Load() // loads .env if present

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}

	logger.New(logger.Options{Service: "storefront", Level: cfg.LogLevel})
	slog.Info("application is running")
	if cfg.Auth.Secret == config.DefaultAuthSecret {
		slog.Warn("auth.secret is the built-in default, tokens can be forged; set STOREFRONT_AUTH_SECRET")
	}

	storage, err := persistence.Open(sigCtx, persistence.Options{
		Driver:  cfg.Storage.Driver,
		DSN:     cfg.Storage.DSN,
		Migrate: cfg.Storage.Migrate,
	})
	if err != nil {
		die("main.openStorage", err)
	}

	cartCodec, err := codec.New(cfg.Storage.Codec)
	if err != nil {
		die("main.newCodec", err)
	}

	client := fetch.NewClient(cfg.Upstream.BaseURL, fetch.WithTimeout(cfg.Upstream.Timeout))

	cartSvc := cartuc.NewService(storage.Carts, cartCodec, client,
		cartuc.WithKeyPrefix(cfg.Cart.KeyPrefix),
		cartuc.WithStoreOpts(cartuc.WithWriteTimeout(cfg.Cart.WriteTimeout)),
	)

	checkoutSvc := checkoutuc.NewService(infrashipping.NewHTTPSaver(client), cartSvc)
	evictDone := make(chan struct{})
	go func() {
		defer close(evictDone)
		evictIdle(sigCtx, cfg.Cart.IdleTTL, cartSvc, checkoutSvc)
	}()

	productSvc := productuc.NewService(client)
	api := apihttp.NewAPI(apihttp.Dependencies{
		AuthService:     authuc.NewService(security.NewJWTService(cfg.Auth.Secret, cfg.Auth.TokenTTL)),
		CategoryService: categoryuc.NewService(productSvc),
		ProductService:  productSvc,
		CartService:     cartSvc,
		CheckoutService: checkoutSvc,
	})

	server := apihttp.NewServer(cfg.HTTPServerAddr, api.Router())
	go server.Run(closeApp)

	<-sigCtx.Done()
	slog.Info("application is closing...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	server.Close(shutdownCtx)
	<-evictDone
	if err := cartSvc.Close(shutdownCtx); err != nil {
		slog.Error("failed to flush carts", "err", err)
	}
	storage.Close()

	slog.Info("application is closed")
}

// evictIdle drops the cart and checkout state of shoppers idle for ttl until
// ctx is done. A zero ttl keeps everything for the life of the process.
func evictIdle(ctx context.Context, ttl time.Duration, carts *cartuc.Service, forms *checkoutuc.Service) {
	const op = "main.evictIdle"

	if ttl <= 0 {
		return
	}
	log := slog.With("op", op)

	ticker := time.NewTicker(max(ttl/2, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// A sweep that started before shutdown still flushes what it evicts.
		n, err := carts.EvictIdle(context.WithoutCancel(ctx), ttl)
		if err != nil {
			log.Error("failed to flush evicted carts", "err", err)
		}
		m := forms.EvictIdle(ttl)
		if n > 0 || m > 0 {
			log.Debug("evicted idle shoppers", "carts", n, "checkout_forms", m)
		}
	}
}

func die(op string, err error) {
	slog.Error("failed to start", "op", op, "err", err)
	os.Exit(2)
}
