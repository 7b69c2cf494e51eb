// Command gateway runs the WebSocket-to-bus relay: it accepts incoming
// WebSocket connections, admits them through a bounded pool, and relays
// their traffic onto the message bus as one client session each.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/evergreen-ils/osrf-go/core/bus"
	"github.com/evergreen-ils/osrf-go/core/config"
	"github.com/evergreen-ils/osrf-go/core/logger"
	"github.com/evergreen-ils/osrf-go/gateway/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var busCfg bus.Config
	config.MustLoad(&busCfg)

	var srvCfg server.Config
	config.MustLoad(&srvCfg)

	pool, err := bus.NewPool(busCfg)
	if err != nil {
		log.Error("gateway: bus pool configuration invalid", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = pool.Close() }()

	if err := pool.Healthcheck(ctx); err != nil {
		log.Error("gateway: bus unreachable at startup", logger.Error(err))
		os.Exit(1)
	}

	srv, err := server.New(srvCfg, busCfg.Domain, pool, server.WithLogger(log))
	if err != nil {
		log.Error("gateway: failed to build server", logger.Error(err))
		os.Exit(1)
	}

	log.Info("gateway: listening", logger.ID("addr", srvCfg.Addr()))

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return srv.Run(gctx) })

	if err := eg.Wait(); err != nil {
		log.Error("gateway: exited with error", logger.Error(err))
		os.Exit(1)
	}

	log.Info("gateway: stopped")
}
