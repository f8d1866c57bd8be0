package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"catering/internal/config"
	"catering/internal/database"
	domainbooking "catering/internal/domain/booking"
	"catering/internal/domain/catalog"
	"catering/internal/domain/submission"
	"catering/internal/domain/travel"
	"catering/internal/domain/validation"
	"catering/internal/identity"
	"catering/internal/middleware"
	"catering/internal/modules/booking"
	catalogmod "catering/internal/modules/catalog"
	"catering/internal/notifier"
	jwtsvc "catering/internal/pkg/jwt"
	"catering/internal/pkg/obs"
	"catering/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "catering-api", cfg.OTLPEndpoint, cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	primaryDB, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	localDB, err := database.Connect(cfg.LocalStoreDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.MigratePrimary(primaryDB); err != nil {
		log.Fatalf("migrate primary: %v", err)
	}
	if err := repository.MigrateLocal(localDB); err != nil {
		log.Fatalf("migrate local: %v", err)
	}

	bookingRepo := repository.NewBookingRepository(primaryDB)
	fallbackRepo := repository.NewFallbackRepository(localDB)
	storageRepo := repository.NewLocalStorageRepository(localDB)

	notify, closer, err := buildNotifier(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if closer != nil {
		defer closer.Close()
	}

	menu := catalog.Default()
	resolver := travel.NewDefaultResolver()
	engine := validation.NewEngine(menu, resolver)
	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour, cfg.JWTIssuer)

	coordinator := submission.NewCoordinator(submission.Deps{
		Primary:       bookingRepo,
		Notifier:      notify,
		Fallback:      fallbackRepo,
		Validator:     engine,
		Catalog:       menu,
		Resolver:      resolver,
		NotifyTimeout: cfg.NotifyTimeout,
	})

	hub := booking.NewHub()
	defer hub.Close()
	bookingService := booking.NewService(booking.Deps{
		Catalog:        menu,
		Resolver:       resolver,
		Validator:      engine,
		Storage:        storageRepo,
		Identity:       identity.NewJWTProvider(),
		Submitter:      coordinator,
		RequireAccount: cfg.RequireAccount,
	}, hub)
	go bookingService.RunSweeper(ctx, cfg.SessionSweepInterval, cfg.SessionIdleTTL)
	bookingHandler := booking.NewHandler(bookingService, hub, fallbackRepo, cfg.NotifyWait, cfg.CORSOrigins)
	catalogHandler := catalogmod.NewHandler(menu, resolver)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS(cfg.CORSOrigins), middleware.OptionalJWT(j))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterRoutes(v1)
		bookingHandler.RegisterRoutes(v1)

		// support staff only
		protected := v1.Group("/")
		protected.Use(middleware.SupportOnly())
		{
			bookingHandler.RegisterSupportRoutes(protected)
		}
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Printf("listening addr=%s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error=%q", err.Error())
	}
}

func buildNotifier(cfg *config.Config) (domainbooking.Notifier, io.Closer, error) {
	switch cfg.NotifierKind {
	case config.NotifierWebhook:
		return notifier.NewWebhook(cfg.WebhookURL, cfg.NotifyTimeout), nil, nil
	case config.NotifierAMQP:
		a, err := notifier.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, nil, err
		}
		return a, a, nil
	default:
		return notifier.Log{}, nil, nil
	}
}
