package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/bus-eta-service/internal/bootstrap"
	"github.com/bus-eta-service/internal/config"
	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/infrastructure/kmb"
	"github.com/bus-eta-service/internal/pkg/eta"
	"github.com/bus-eta-service/internal/pkg/identity"
	"github.com/bus-eta-service/internal/pkg/logger"
	"github.com/bus-eta-service/internal/usecase"
	"github.com/bus-eta-service/internal/worker"
)

// board wires the CLI: requests run on the pool, every callback runs on the loop.
type board struct {
	cfg     *config.Config
	log     *zap.Logger
	lang    domain.Language
	infra   *bootstrap.Infra
	gateway *usecase.TransitGateway
	store   *usecase.FavoriteStore
}

func (b *board) open(c *cli.Context) error {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	infra, err := bootstrap.Open(c.Context, cfg, log)
	if err != nil {
		return err
	}

	normalizer := identity.NewNormalizer(log)
	b.cfg = cfg
	b.log = log
	b.lang = domain.ParseLanguage(c.String("lang"))
	b.infra = infra
	b.store = infra.FavoriteStore(normalizer)
	b.gateway = usecase.NewTransitGateway(
		kmb.NewKMBClient(&cfg.Upstream, log),
		normalizer,
		eta.NewResolver(log, time.Now),
		cfg.Upstream.EnrichConcurrency,
		log,
	)
	return nil
}

func (b *board) close(c *cli.Context) error {
	if b.infra != nil {
		b.infra.Close()
	}
	if b.log != nil {
		_ = b.log.Sync()
	}
	return nil
}

// run starts the pool and the loop, posts start onto the loop
// and returns once start's flow calls done, or on interrupt.
func (b *board) run(c *cli.Context, start func(ctx context.Context, async *usecase.AsyncGateway, done func(error))) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := worker.NewPool("board-pool", b.cfg.Worker.PoolSize, b.log)
	loop := worker.NewLoop("board-loop", b.log)
	async := usecase.NewAsyncGateway(b.gateway, pool, loop, b.log)

	manager := worker.NewWorkerManager(10*time.Second, b.log)
	manager.Register(pool)
	manager.Register(loop)
	if err := manager.Start(ctx); err != nil {
		return err
	}

	result := make(chan error, 1)
	done := func(err error) {
		select {
		case result <- err:
		default:
		}
	}
	loop.Post(func() { start(ctx, async, done) })

	var err error
	select {
	case err = <-result:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if stopErr := manager.Stop(); stopErr != nil {
		b.log.Warn("Board workers did not stop cleanly", zap.Error(stopErr))
	}
	return err
}
