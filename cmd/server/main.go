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
	"time"

	"go.uber.org/zap"

	"github.com/natevvv/grid-astar/internal/config"
	"github.com/natevvv/grid-astar/pkg/grid"
	"github.com/natevvv/grid-astar/pkg/routing"
	openapi "github.com/natevvv/grid-astar/pkg/server/openapi_server"
)

func main() {
	c, err := config.FromArgs("server", os.Args[1:], nil)
	if errors.Is(err, flag.ErrHelp) {
		return
	} else if err != nil {
		log.Fatal(err)
	}

	logger, err := c.Logger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	policy, _ := c.UpdatePolicy()
	maze, err := grid.ReadMazeFile(c.Maze, c.GridOptions()...)
	if err != nil {
		logger.Fatal("failed to read maze", zap.Error(err))
	}
	logger.Info("maze loaded",
		zap.String("file", c.Maze),
		zap.Int("width", maze.Grid.Width()),
		zap.Int("depth", maze.Grid.Depth()),
		zap.Int("free", len(maze.Grid.FreeLocations())))

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	router := routing.NewRouter(maze.Grid, logger, seed)
	router.SetDebugLevel(c.DebugLevel)

	DefaultApiService := openapi.NewDefaultApiService(router, policy)
	DefaultApiController := openapi.NewDefaultApiController(DefaultApiService)

	server := &http.Server{
		Addr:    c.Address,
		Handler: openapi.NewRouter(logger, DefaultApiController),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server started", zap.String("address", c.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
}
