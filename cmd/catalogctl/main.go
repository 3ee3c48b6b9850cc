package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"backoffice/catalog/internal/config"
	"backoffice/catalog/internal/infrastructure/filestore"
	"backoffice/catalog/internal/infrastructure/logging"
	"backoffice/catalog/internal/infrastructure/postgres"
	"backoffice/catalog/internal/infrastructure/telemetry"
	categoryusecase "backoffice/catalog/internal/usecase/category"
	productusecase "backoffice/catalog/internal/usecase/product"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const usage = `usage: catalogctl <command> [flags]

commands:
  migrate                 apply the database schema
  categories              list category choices
  list                    list products
  get -id N               show one product
  create [flags]          create a product (-name -description -price -stock -category -image)
  update -id N [flags]    change a product; only the given flags are applied
  delete -id N            delete a product and its image
  image -id N -out FILE   copy a product's image to FILE
  verify                  report products whose image file is missing
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "catalogctl:", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// app holds the wired services for one invocation.
type app struct {
	db         *postgres.Database
	products   *productusecase.Service
	categories *categoryusecase.Service
	logger     *zap.Logger
	out        io.Writer
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	// Flags are checked before any connection is opened.
	action, err := cmd(args[1:])
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(logging.Options{Mode: cfg.LogMode, Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := postgres.New(ctx, cfg.DatabaseURL, postgres.Options{
		MaxConnLifetime: cfg.MaxConnLifetime,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewLifecycleMetrics(registry)
	if cfg.MetricsFile != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(cfg.MetricsFile, registry); err != nil {
				logger.Warn("failed to write metrics file", zap.String("path", cfg.MetricsFile), zap.Error(err))
			}
		}()
	}

	a := &app{
		db: db,
		products: productusecase.NewService(
			postgres.NewUnitOfWorkFactory(db.Pool, logger),
			filestore.New(cfg.ContentRoot, logger),
			productusecase.WithLogger(logger),
			productusecase.WithMetrics(metrics),
		),
		categories: categoryusecase.NewService(postgres.NewCategoryRepository(db.Pool)),
		logger:     logger,
		out:        out,
	}
	return action(ctx, a)
}
