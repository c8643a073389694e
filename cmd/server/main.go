package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpc_ctxtags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/config"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/grpclib"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/metrics"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/otellib"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/api"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/chain"
)

const healthInterval = 5 * time.Second

func main() {
	rootCmd := cobra.Command{
		Use: "server",
	}
	rootCmd.AddCommand(
		startServerCommand(),
		ingestCommand(),
	)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func startServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "start the ledger node with its HTTP read model",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer()
		},
	}
}

func newGRPCServer(logger *zap.Logger, tp *sdktrace.TracerProvider) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_recovery.UnaryServerInterceptor(grpc_recovery.WithRecoveryHandler(grpclib.RecoveryHandlerFunc)),
			grpc_ctxtags.UnaryServerInterceptor(),
			grpc_prometheus.UnaryServerInterceptor,

			otellib.UnaryServerInterceptor(tp),
			otellib.SetTraceInfoInterceptor(logger),

			grpc_zap.UnaryServerInterceptor(logger),
		),
		grpc.ChainStreamInterceptor(
			grpc_middleware.ChainStreamServer(
				grpc_recovery.StreamServerInterceptor(grpc_recovery.WithRecoveryHandler(grpclib.RecoveryHandlerFunc)),
				grpc_ctxtags.StreamServerInterceptor(),
				grpc_prometheus.StreamServerInterceptor,
				otellib.StreamServerInterceptor(tp),
				grpc_zap.StreamServerInterceptor(logger),
			),
		),
	)

	grpc_prometheus.EnableHandlingTimeHistogram()
	grpc_prometheus.Register(grpcServer)
	return grpcServer
}

func initTracing(serviceName string, conf config.Config) (*sdktrace.TracerProvider, func()) {
	tp, shutdown := otellib.InitOtel(serviceName, conf.Env, conf.Jaeger)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp, shutdown
}

func startServer() error {
	conf := config.Load()
	logger := config.NewLogger(conf.Log)
	defer func() { _ = logger.Sync() }()

	tp, shutdown := initTracing("ledger-node", conf)
	defer shutdown()

	nodeConf, err := conf.Ledger.NodeConfig()
	if err != nil {
		return err
	}

	store, err := chain.OpenStore(conf.Ledger.DataDir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	m := metrics.New(prometheus.DefaultRegisterer)
	node, err := chain.NewNode(store, nodeConf, logger, chain.WithMetrics(m))
	if err != nil {
		return err
	}

	grpcServer := newGRPCServer(logger, tp)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	apiServer := api.NewServer(node, conf.API, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := node.Run(ctx); err != nil {
			logger.Error("Node stopped", zap.Error(err))
		}
	}()

	startHTTPAndGRPCServers(conf.Server, grpcServer, apiServer.Handler())

	cancel()
	wg.Wait()
	return nil
}

func startHTTPAndGRPCServers(conf config.ServerConfig, grpcServer *grpc.Server, handler http.Handler) {
	fmt.Println("GRPC:", conf.GRPC.ListenString())
	fmt.Println("HTTP:", conf.HTTP.ListenString())

	httpMux := http.NewServeMux()
	httpMux.Handle("/metrics", promhttp.Handler())
	httpMux.Handle("/", handler)

	httpServer := &http.Server{
		Addr:              conf.HTTP.ListenString(),
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
		fmt.Println("Shutdown HTTP server successfully")
	}()

	go func() {
		defer wg.Done()

		listener, err := net.Listen("tcp", conf.GRPC.ListenString())
		if err != nil {
			panic(err)
		}

		err = grpcServer.Serve(listener)
		if err != nil {
			panic(err)
		}
		fmt.Println("Shutdown gRPC server successfully")
	}()

	//--------------------------------
	// Graceful Shutdown
	//--------------------------------
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	grpcServer.GracefulStop()
	err := httpServer.Shutdown(ctx)
	if err != nil {
		panic(err)
	}

	wg.Wait()
}
