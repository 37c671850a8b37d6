package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/limaJavier/roomscheduler/pkg/config"
	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/limaJavier/roomscheduler/pkg/reservation"
	"github.com/limaJavier/roomscheduler/pkg/schedule"
	"go.uber.org/zap"
)

func main() {
	configPtr := flag.String("config", "", "Path to a YAML or JSON configuration file; if empty, defaults and ROOMSCHED_* environment variables are used")
	flag.Parse()

	conf, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	} else if conf.Catalog == "" {
		log.Fatal("a catalog must be specified (catalog key or ROOMSCHED_CATALOG)")
	}

	logger, err := conf.Logger()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	// =========================================================================
	// Initialize engines

	grid, err := conf.Grid()
	if err != nil {
		logger.Fatal("invalid timeslot grid", zap.Error(err))
	}
	timetabler, err := conf.Timetabler()
	if err != nil {
		logger.Fatal("cannot initialize timetabler", zap.Error(err))
	}

	// Reservations keep catalog ids, so the catalog is read once for the lifetime of the process
	catalog, err := model.InputFromPath(conf.Catalog)
	if err != nil {
		logger.Fatal("cannot load catalog", zap.String("path", conf.Catalog), zap.Error(err))
	}
	catalogs := schedule.NewStaticCatalog(catalog)

	store := schedule.NewMemoryStore()
	reservations := reservation.NewService(catalogs, store, reservation.NewMemoryLedger(), logger.Named("reservation"))
	generator := schedule.NewGenerator(catalogs, reservations, store, timetabler, grid, logger.Named("generator"))

	if !conf.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(&server{
		catalogs:     catalogs,
		store:        store,
		generator:    generator,
		reservations: reservations,
		grid:         grid,
		logger:       logger.Named("http"),
	})

	// =========================================================================
	// Start API service

	httpServer := &http.Server{Addr: conf.Server.Address, Handler: router}
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("address", conf.Server.Address),
			zap.String("strategy", conf.Strategy),
			zap.Int("rooms", len(catalog.Rooms)),
			zap.Int("courses", len(catalog.Courses)),
		)
		serverErrors <- httpServer.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}

	case sig := <-shutdown:
		logger.Info("start shutdown", zap.Stringer("signal", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("could not stop server gracefully", zap.Error(err))
			if err := httpServer.Close(); err != nil {
				logger.Fatal("could not force stop server", zap.Error(err))
			}
		}
	}
	logger.Info("server stopped")
}
