package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/paatrickbarbosa/RoomS/internal/handlers"
	"github.com/paatrickbarbosa/RoomS/internal/metrics"
	"github.com/paatrickbarbosa/RoomS/internal/notify"
	"github.com/paatrickbarbosa/RoomS/internal/repository"
	"github.com/paatrickbarbosa/RoomS/internal/service"
	"github.com/paatrickbarbosa/RoomS/pkg/config"
	"github.com/paatrickbarbosa/RoomS/pkg/db"
	"github.com/paatrickbarbosa/RoomS/pkg/logger"
	"github.com/paatrickbarbosa/RoomS/pkg/obs"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := obs.InitTracer(ctx, "rooms", cfg.OTLPEndpoint)
		if err != nil {
			zl.Fatal("tracer init failed", zap.Error(err))
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	// Store: Postgres when a DSN is configured, seeded in-memory otherwise.
	var store repository.Store
	if cfg.DatabaseDSN != "" {
		gdb, err := db.Open(cfg.DatabaseDSN)
		if err != nil {
			zl.Fatal("database open failed", zap.Error(err))
		}
		pg := repository.NewPostgres(gdb)
		if err := pg.Migrate(); err != nil {
			zl.Fatal("migration failed", zap.Error(err))
		}
		store = pg
		zl.Info("using postgres store")
	} else {
		mem := repository.NewMemory()
		if err := mem.Seed(ctx); err != nil {
			zl.Fatal("seed failed", zap.Error(err))
		}
		store = mem
		zl.Info("using in-memory store")
	}

	hub := notify.NewHub(zl)
	defer hub.Close()
	broadcasters := notify.Multi{hub}
	if cfg.RabbitURL != "" {
		bridge, err := notify.NewAMQP(cfg.RabbitURL, cfg.BookingExchange)
		if err != nil {
			zl.Fatal("rabbitmq connect failed", zap.Error(err))
		}
		defer bridge.Close()
		broadcasters = append(broadcasters, bridge)
		zl.Info("publishing events to rabbitmq", zap.String("exchange", cfg.BookingExchange))
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rooms_websocket_clients",
		Help: "Number of connected websocket clients",
	}, func() float64 { return float64(hub.ClientCount()) }))

	availSvc := service.NewAvailabilitySvc(store)
	bookingSvc := service.NewBookingSvc(store, availSvc, broadcasters, zl, m, cfg.AutoConfirm, time.Now)
	roomSvc := service.NewRoomSvc(store, broadcasters, zl)
	dashSvc := service.NewDashboardSvc(store, time.Now)
	authSvc := service.NewAuthSvc(store, time.Duration(cfg.JWTExpireMin)*time.Minute)
	userSvc := service.NewUserSvc(store)

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	set := &handlers.Set{
		Auth:      handlers.NewAuthHandler(authSvc),
		Rooms:     handlers.NewRoomHandler(roomSvc, availSvc),
		Bookings:  handlers.NewBookingHandler(bookingSvc),
		Users:     handlers.NewUserHandler(userSvc),
		Dashboard: handlers.NewDashboardHandler(dashSvc),
		Hub:       hub,
	}
	set.Register(r)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		zl.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server failed", zap.Error(err))
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	zl.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Warn("http shutdown", zap.Error(err))
	}
	hub.Close()
	zl.Info("stopped")
}
