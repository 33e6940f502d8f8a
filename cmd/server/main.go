package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/router"
	"github.com/iliyamo/room-reservation/internal/service"
)

func main() {
	cfg := config.Load()
	logger := log.New("reservations")
	logger.SetLevel(parseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repository.NewRecordStore(newBackend(cfg, logger), cfg.DefaultRooms, logger)

	var publisher handler.ReservationPublisher
	if cfg.QueueEnabled {
		publisher = service.NewAMQPPublisher(cfg.AMQPURL, logger)
	}
	if cfg.ConsumerEnabled {
		consumer := &queue.Consumer{URL: cfg.AMQPURL, LogPath: cfg.EventLogPath, Logger: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("reservation consumer stopped: %v", err)
			}
		}()
	}

	rl := config.LoadRateLimitConfig()
	var rdb *redis.Client
	if rl.Enabled {
		if rdb = config.NewRedisClient(config.LoadRedisConfig()); rdb == nil {
			logger.Warn("redis unreachable; rate limiting disabled")
		} else {
			defer rdb.Close()
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	router.RegisterMiddleware(e, logger, cfg.CORSOrigins, middleware.NewTokenBucket(rl, rdb))
	router.RegisterRoutes(e)
	router.RegisterBooking(e, handler.NewBookingHandler(store, publisher, logger))
	router.RegisterAdmin(e, handler.NewAdminHandler(store, store))
	router.RegisterStatic(e, cfg.StaticDir)

	addr := ":" + cfg.Port
	logger.Infof("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreBackend)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

func newBackend(cfg config.Config, logger *log.Logger) repository.Backend {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Warn("memory store selected; data is lost on exit")
		return repository.NewMemoryBackend()
	}
	return repository.NewSheetBackend(cfg.ReservationsFile, cfg.RoomsFile)
}

func parseLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
