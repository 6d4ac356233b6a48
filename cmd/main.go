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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/parkly/parking-platform/internal/config"
	"github.com/parkly/parking-platform/internal/db"
	"github.com/parkly/parking-platform/internal/handler"
	"github.com/parkly/parking-platform/internal/logger"
	"github.com/parkly/parking-platform/internal/model"
	"github.com/parkly/parking-platform/internal/repository"
	"github.com/parkly/parking-platform/internal/service"
	"github.com/parkly/parking-platform/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	gdb, err := db.NewGormDB(&cfg.DB)
	if err != nil {
		zl.Fatal("connect database", zap.Error(err))
	}

	if err := model.AutoMigrate(gdb); err != nil {
		zl.Fatal("migrate", zap.Error(err))
	}

	lots := repository.NewGormLotRepository(gdb)
	bookings := repository.NewGormBookingRepository(gdb)
	protocols := repository.NewGormProtocolRepository(gdb)
	cash := repository.NewGormCashRepository(gdb)
	invoices := repository.NewGormInvoiceRepository(gdb)
	drivers := repository.NewGormDriverRepository(gdb)
	events := repository.NewGormEventRepository(gdb)

	hub := ws.NewHub(zl)
	go hub.Run()

	h := &handler.Handler{
		Lots:      service.NewLotService(lots, zl),
		Bookings:  service.NewBookingService(gdb, lots, bookings, drivers, events, hub, zl),
		Protocols: service.NewProtocolService(gdb, bookings, protocols, drivers, zl),
		Cash:      service.NewCashService(gdb, cash, bookings, invoices, events, zl),
		Invoices:  service.NewInvoiceService(invoices, zl),
		Drivers:   service.NewDriverService(drivers, zl),
		Hub:       hub,
		Log:       zl,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(h, cfg.JWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zl.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}
