// Command worker runs a pool of service workers dispatching requests
// delivered over the message bus to methods registered in a method.Registry.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/evergreen-ils/osrf-go/core/bus"
	"github.com/evergreen-ils/osrf-go/core/busaddr"
	"github.com/evergreen-ils/osrf-go/core/config"
	"github.com/evergreen-ils/osrf-go/core/logger"
	"github.com/evergreen-ils/osrf-go/core/message"
	"github.com/evergreen-ils/osrf-go/core/method"
	"github.com/evergreen-ils/osrf-go/core/session"
	"github.com/evergreen-ils/osrf-go/core/supervisor"
	"github.com/evergreen-ils/osrf-go/core/worker"
)

// serviceName is the bus address this worker pool listens on. A real
// deployment runs one such process per registered service; this build
// carries a single example method.
const serviceName = "svc"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var busCfg bus.Config
	config.MustLoad(&busCfg)

	var workerCfg worker.Config
	config.MustLoad(&workerCfg)

	var supCfg supervisor.Config
	config.MustLoad(&supCfg)

	pool, err := bus.NewPool(busCfg)
	if err != nil {
		log.Error("worker: bus pool configuration invalid", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = pool.Close() }()

	if err := pool.Healthcheck(ctx); err != nil {
		log.Error("worker: bus unreachable at startup", logger.Error(err))
		os.Exit(1)
	}

	registry := method.NewRegistry()
	if err := registerMethods(registry); err != nil {
		log.Error("worker: failed to register methods", logger.Error(err))
		os.Exit(1)
	}
	registry.Freeze()

	dialer := func(ctx context.Context) (bus.Conn, error) {
		return pool.Dial(ctx, busaddr.NewClient(busCfg.Domain, serviceName))
	}
	svcDialer := func(ctx context.Context) (bus.Conn, error) {
		return pool.Dial(ctx, busaddr.NewService(busCfg.Domain, serviceName))
	}

	sup := supervisor.New(busCfg.Domain, serviceName, registry, dialer,
		supervisor.WithConfig(supCfg),
		supervisor.WithWorkerConfig(workerCfg),
		supervisor.WithServiceDialer(svcDialer),
		supervisor.WithLogger(log))

	log.Info("worker: starting pool",
		logger.ID("service", serviceName), logger.ID("min_workers", supCfg.MinWorkers), logger.ID("max_workers", supCfg.MaxWorkers))

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return sup.Run(gctx) })

	if err := eg.Wait(); err != nil {
		log.Error("worker: exited with error", logger.Error(err))
		os.Exit(1)
	}

	log.Info("worker: stopped")
}

// registerMethods binds the example methods this runtime serves. A real
// deployment would register its own application methods here instead.
func registerMethods(registry *method.Registry) error {
	return registry.Register(method.Descriptor{
		Name:   "echo",
		Params: method.AtLeast(0),
		Handler: func(ctx context.Context, s *session.Session, req *message.Message) error {
			for _, p := range req.Params {
				if err := s.Respond(ctx, p); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
