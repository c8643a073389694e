package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/config"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/cacheclient"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/grpclib"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/kafkasink"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/metrics"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/repository"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/api"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/ingest"
)

const ingestHealthService = "ledger.ingest"

var _ ingest.Source = &api.Client{}

func ingestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "run the notification ingestion pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest()
		},
	}
	cmd.AddCommand(skipCommand(), failedCommand())
	return cmd
}

func skipCommand() *cobra.Command {
	var seq uint64
	cmd := &cobra.Command{
		Use:   "skip",
		Short: "let the pipeline move past a record that failed to decode",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seq == 0 {
				return errors.New("--seq is required")
			}

			conf := config.Load()
			db := conf.MySQL.MustConnect()
			defer func() { _ = db.Close() }()

			provider := repository.NewProvider(db)
			err := ingest.Skip(context.Background(), provider, repository.NewFailedNotification(), seq)
			if err != nil {
				return err
			}
			fmt.Println("Skipped seq:", seq)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seq, "seq", 0, "seq of the pending failed record")
	return cmd
}

func failedCommand() *cobra.Command {
	var skipped bool
	cmd := &cobra.Command{
		Use:   "failed",
		Short: "list records that failed to decode",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := config.Load()
			db := conf.MySQL.MustConnect()
			defer func() { _ = db.Close() }()

			status := model.FailedNotificationStatusPending
			if skipped {
				status = model.FailedNotificationStatusSkipped
			}

			provider := repository.NewProvider(db)
			ctx := provider.Readonly(context.Background())
			list, err := repository.NewFailedNotification().ListFailedNotifications(ctx, status)
			if err != nil {
				return err
			}

			for _, f := range list {
				fmt.Printf("seq=%d discriminator=0x%08x reason=%q data=%s\n",
					f.Seq, f.Discriminator, f.Reason, hex.EncodeToString(f.Data))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipped, "skipped", false, "list skipped records instead of pending ones")
	return cmd
}

func newLease(conf config.Config, logger *zap.Logger) (ingest.Lease, func(), error) {
	if !conf.Memcache.Enabled() {
		logger.Warn("Memcache not configured, running without lease")
		return nil, func() {}, nil
	}

	client, err := cacheclient.New(conf.Memcache.Addr(), conf.Memcache.NumConns)
	if err != nil {
		return nil, nil, err
	}

	owner := uuid.NewString()
	logger.Info("Ingest lease owner", zap.String("owner", owner))

	lease := cacheclient.NewLease(client, conf.Ingest.LeaseKey, owner)
	return lease, func() { _ = client.Close() }, nil
}

func newConsumers(
	conf config.Config, provider repository.Provider, tracer trace.Tracer, logger *zap.Logger,
) ([]ingest.Consumer, func(), error) {
	consumers := []ingest.Consumer{
		ingest.NewConsumerWrapper(
			ingest.NewEventLogConsumer(provider, repository.NewEventLog(), logger),
			tracer, "ingest::EventLog::",
		),
	}
	if !conf.Kafka.Enabled() {
		return consumers, func() {}, nil
	}

	sink, err := kafkasink.New(conf.Kafka)
	if err != nil {
		return nil, nil, err
	}
	consumers = append(consumers, ingest.NewConsumerWrapper(
		ingest.NewKafkaConsumer(sink), tracer, "ingest::Kafka::",
	))
	return consumers, func() { _ = sink.Close() }, nil
}

func runIngest() error {
	conf := config.Load()
	logger := config.NewLogger(conf.Log).With(zap.String("pipeline", conf.Ingest.Name))
	defer func() { _ = logger.Sync() }()

	tp, shutdown := initTracing("ledger-ingest", conf)
	defer shutdown()

	db := conf.MySQL.MustConnect()
	defer func() { _ = db.Close() }()
	provider := repository.NewProvider(db)

	lease, closeLease, err := newLease(conf, logger)
	if err != nil {
		return err
	}
	defer closeLease()

	consumers, closeConsumers, err := newConsumers(conf, provider, tp.Tracer("ledger-ingest"), logger)
	if err != nil {
		return err
	}
	defer closeConsumers()

	options := []ingest.Option{
		ingest.WithLogger(logger),
		ingest.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
		ingest.WithConsumers(consumers...),
	}
	if lease != nil {
		options = append(options, ingest.WithLease(lease))
	}

	source := api.NewClient(conf.Node.URL, conf.Node.Timeout)
	pipeline := ingest.NewPipeline(
		source, provider,
		repository.NewCheckpoint(), repository.NewFailedNotification(),
		ingest.Config(conf.Ingest), options...,
	)

	grpcServer := newGRPCServer(logger, tp)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reporter := grpclib.NewHealthReporter(healthServer, ingestHealthService, pipeline.Healthy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		err := pipeline.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Pipeline stopped", zap.Error(err))
		}
	}()
	go func() {
		defer wg.Done()
		reporter.Run(ctx, healthInterval)
	}()

	startHTTPAndGRPCServers(conf.IngestServer, grpcServer, healthHandler(pipeline.Healthy))

	cancel()
	wg.Wait()
	return nil
}

func healthHandler(check func() error) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := check(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}
