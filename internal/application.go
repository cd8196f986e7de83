package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zermelo-games/noughts-backend/internal/config"
	"github.com/zermelo-games/noughts-backend/internal/engine"
	"github.com/zermelo-games/noughts-backend/internal/janitor"
	"github.com/zermelo-games/noughts-backend/internal/metrics"
	"github.com/zermelo-games/noughts-backend/internal/repository"
	"github.com/zermelo-games/noughts-backend/internal/repository/storage"
	"github.com/zermelo-games/noughts-backend/internal/service"
	"github.com/zermelo-games/noughts-backend/internal/usecase"
	"github.com/zermelo-games/noughts-backend/transport/rest"
	"github.com/zermelo-games/noughts-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.Archive.SQLitePath)
	if err != nil {
		return fmt.Errorf("could not open archive storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close archive storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not create archive schema: %w", err)
	}

	playerRepo := repository.NewPlayerRepository(redisStorage.Connection)
	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.GameTTL)
	archiveRepo := repository.NewArchiveRepository(sqliteStorage.Connection)

	collector := metrics.NewCollector(nil)

	gameEngine := engine.New(engine.WithObserver(func(tactic string, cell int) {
		collector.ObserveTactic(tactic, cell)
		log.Debug("engine tactic", "tactic", tactic, "cell", cell)
	}))

	playerService := service.NewPlayerService(playerRepo)
	gameService := service.NewGameService(gameRepo)
	botService := service.NewBotService(gameEngine)
	gamePlayService := service.NewGamePlayService(logger, playerService, gameService, botService)
	archiveService := service.NewArchiveService(archiveRepo)

	gameUseCase := usecase.NewGameUseCase(logger, playerService, gameService, gamePlayService, archiveService, collector)

	archiveJanitor := janitor.New(logger, archiveService, conf.Archive.PurgeSchedule, conf.Archive.RetentionAge())
	if err = archiveJanitor.Start(ctx); err != nil {
		return fmt.Errorf("could not start janitor: %w", err)
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, rest.NewHandlers(logger, archiveService), collector.Handler())
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase, collector)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
