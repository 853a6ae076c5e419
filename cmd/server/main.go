package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/sofra-eats/sofra/internal/auth"
	"github.com/sofra-eats/sofra/internal/checkout"
	"github.com/sofra-eats/sofra/internal/config"
	"github.com/sofra-eats/sofra/internal/events"
	"github.com/sofra-eats/sofra/internal/middleware"
	"github.com/sofra-eats/sofra/internal/service"
	"github.com/sofra-eats/sofra/internal/storage/sqlite"
	"github.com/sofra-eats/sofra/pkg/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sofra",
	Short: "Food ordering backend",
	Long:  `sofra is the ordering backend: restaurant catalog, per-user carts, checkout with VAT and tiered delivery fees, and shareable group orders.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./sofra.yaml)")
	rootCmd.AddCommand(seedCmd)
}

func serve() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	var notifier checkout.Notifier
	if cfg.KafkaEnabled {
		publisher, err := events.NewPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		if err != nil {
			return fmt.Errorf("failed to connect to Kafka: %w", err)
		}
		defer publisher.Close()
		notifier = publisher
	}

	carts := service.NewCartRegistry()
	groups := service.NewGroupRegistry()
	checkoutSvc := checkout.NewService(store, notifier)

	// Card payments need a real processor integration; until one is
	// configured only cash on delivery is accepted.
	orderSvc := service.NewOrderService(store, carts, checkoutSvc, nil)

	public := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(),
	)
	authed := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(),
		middleware.RequireAuth(jwtManager),
	)

	mux := http.NewServeMux()

	authPath, authHandler := service.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager), public)
	mux.Handle(authPath, authHandler)

	catalogPath, catalogHandler := service.NewCatalogServiceHandler(service.NewCatalogService(store), public)
	mux.Handle(catalogPath, catalogHandler)

	cartPath, cartHandler := service.NewCartServiceHandler(service.NewCartService(store, carts), authed)
	mux.Handle(cartPath, cartHandler)

	orderPath, orderHandler := service.NewOrderServiceHandler(orderSvc, authed)
	mux.Handle(orderPath, orderHandler)

	groupPath, groupHandler := service.NewGroupServiceHandler(service.NewGroupService(store, groups), authed)
	mux.Handle(groupPath, groupHandler)

	mux.Handle("/metrics", promhttp.Handler())

	// h2c lets Connect clients use HTTP/2 without TLS.
	h2cHandler := h2c.NewHandler(mux, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("server starting", "address", addr)
	return http.ListenAndServe(addr, h2cHandler)
}

func main() {
	logging.Setup()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
