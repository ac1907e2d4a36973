package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"task-api/app/config"
	"task-api/app/controllers"
	"task-api/app/repositories"
	"task-api/app/routes"
	"task-api/app/services"
	"task-api/app/storage"

	"github.com/urfave/cli"
	"golang.org/x/sys/unix"
)

func main() {
	app := cli.NewApp()
	app.Name = "task-api"
	app.Usage = "task REST API backed by an ephemeral file store"
	app.Flags = config.Flags()
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.FromContext(c)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	// Initialize the storage engine
	store, err := config.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	tasks := storage.NewEphemeral(store, logger)
	defer tasks.Shutdown(context.Background())

	taskService := services.NewTaskService(repositories.NewStoreRepository(tasks))
	taskController := controllers.NewTaskController(taskService, logger)
	router := routes.NewRouter(taskController, logger)

	srv := &http.Server{Addr: cfg.Addr, Handler: router}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server is running", "addr", cfg.Addr, "backend", cfg.Backend)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown did not complete", "error", err)
	}
	return nil
}
