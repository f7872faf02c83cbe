package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-duel/internal/config"
	"github.com/rocketscienceinc/tictactoe-duel/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-duel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-duel/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-duel/internal/service"
	"github.com/rocketscienceinc/tictactoe-duel/transport/rest"
	"github.com/rocketscienceinc/tictactoe-duel/transport/websocket"
)

const (
	shutdownTimeout = 5 * time.Second
	publishTimeout  = 2 * time.Second
	eventBuffer     = 64
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	group, ctx := errgroup.WithContext(ctx)

	var notifier *service.Notifier
	if conf.Redis.Enabled {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedis(ctx, redisAddrString)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		eventRepo := repository.NewEventRepository(redisStorage, conf.Redis.Channel)
		notifier = service.NewNotifier(logger, eventRepo, eventBuffer, publishTimeout)
		group.Go(func() error {
			return notifier.Run(ctx)
		})
	} else {
		log.Info("Redis is disabled, game events are not published")
	}

	hub := websocket.NewHub(logger, websocket.HubOptions{
		AutoResetDelay:      conf.Game.AutoResetDelay,
		NotifyRejectedMoves: conf.Game.NotifyRejectedMoves,
	}, appMetrics, notifier)

	wsServer := websocket.New(logger, hub, appMetrics, websocket.ConnectionOptions{
		WriteWait:      conf.WebSocket.WriteWait,
		PongWait:       conf.WebSocket.PongWait,
		PingPeriod:     conf.WebSocket.PingPeriod,
		SendBuffer:     conf.WebSocket.SendBuffer,
		MaxMessageSize: conf.WebSocket.MaxMessageSize,
	}, conf.WebSocket.AllowedOrigins)

	httpServer := rest.New(logger, wsServer, registry)

	group.Go(func() error {
		return httpServer.Start(conf.HTTPPort)
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info("Application context canceled, shutting down")

		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("application stopped with error: %w", err)
	}

	return nil
}
