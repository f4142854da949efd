package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/errgroup"

	"github.com/swapvault/swapd/app"
	"github.com/swapvault/swapd/commands/server"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/events"
	"github.com/swapvault/swapd/store"
)

func (c *cli) startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.start(ctx)
		},
	}
	flags := cmd.Flags()
	flags.String(genesisKey, "", "genesis file, used on the first start only (default <home>/config/genesis.json)")
	flags.String(dbDirKey, "", "database directory (default <home>/data)")
	flags.Bool(inMemoryKey, false, "keep the state in memory only")
	flags.String(httpAddrKey, "localhost:8080", "HTTP API listen address")
	flags.Int(httpRateKey, 50, "transactions accepted per second, 0 for unlimited")
	flags.String(redisKey, "", "publish events to this redis server")
	flags.String(channelKey, events.DefaultRedisChannel, "redis pub/sub channel for events")
	flags.String(postgresKey, "", "append events to this postgres database")
	flags.Bool(wsKey, true, "stream events on /events")
	for _, key := range []string{genesisKey, dbDirKey, inMemoryKey, httpAddrKey, httpRateKey, redisKey, channelKey, postgresKey, wsKey} {
		_ = c.v.BindPFlag(key, flags.Lookup(key))
	}
	return cmd
}

func (c *cli) start(ctx context.Context) error {
	conf := c.config()
	logger, err := newLogger(c.out, conf.LogFmt, conf.LogLevel)
	if err != nil {
		return err
	}

	db, err := store.NewBadgerStore(store.BadgerConfig{
		Dir:      conf.DBDir,
		InMemory: conf.InMemory,
		Logger:   logger.With("module", "badger"),
	})
	if err != nil {
		return err
	}
	defer db.Close()

	var gen *app.Genesis
	if fileExists(conf.Genesis) {
		if gen, err = app.LoadGenesis(conf.Genesis); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pub, hub, closeSinks, err := buildPublisher(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	exec, err := app.New(db, app.Config{
		Genesis:   gen,
		Publisher: pub,
		Metrics:   app.NewMetrics(reg),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	api := server.Config{
		Backend: exec,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Rate:    conf.HTTPRate,
		Debug:   conf.Debug,
		Logger:  logger.With("module", "http"),
	}
	if hub != nil {
		api.Events = hub
	}
	srv := &http.Server{
		Addr:              conf.HTTPAddr,
		Handler:           server.NewHandler(api),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pub.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("Starting HTTP API", "addr", conf.HTTPAddr, "chain_id", exec.ChainID())
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrNetwork, err.Error())
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if hub != nil {
			hub.Close()
		}
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	err = g.Wait()
	logger.Info("Stopped")
	return err
}

// buildPublisher creates the event publisher with every configured sink.
// External sinks are placed behind a circuit breaker.
func buildPublisher(ctx context.Context, conf Config, logger log.Logger) (*events.Publisher, *events.Hub, func(), error) {
	var (
		sinks   = []events.Sink{events.NewLogSink(logger.With("module", "events"))}
		closers []func()
		hub     *events.Hub
	)
	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}

	if conf.Redis != "" {
		rs, err := events.NewRedisSink(ctx, conf.Redis, conf.Channel)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = rs.Close() })
		sinks = append(sinks, events.WithBreaker(rs, events.DefaultBreakerConfig, logger))
	}
	if conf.Postgres != "" {
		ps, err := events.NewPostgresSink(ctx, conf.Postgres)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		closers = append(closers, ps.Close)
		sinks = append(sinks, events.WithBreaker(ps, events.DefaultBreakerConfig, logger))
	}
	if conf.Stream {
		hub = events.NewHub(logger)
		sinks = append(sinks, hub)
	}
	return events.NewPublisher(conf.Queue, logger, sinks...), hub, closeAll, nil
}
