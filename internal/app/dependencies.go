package app

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/seed"
	"github.com/vladislavdragonenkov/backoffice/internal/service/backoffice"
	"github.com/vladislavdragonenkov/backoffice/internal/storage/memory"
	"github.com/vladislavdragonenkov/backoffice/internal/storage/postgres"
)

// runtimeDependencies — репозитории выбранного хранилища и управление его жизненным циклом.
type runtimeDependencies struct {
	repos backoffice.Repositories
	store *postgres.Store

	// probe — проверка пустоты для загрузчика тестовых данных; nil означает подсчет через репозитории.
	probe seed.Probe
}

// ping проверяет доступность хранилища; in-memory хранилище доступно всегда.
func (d *runtimeDependencies) ping(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	return d.store.Ping(ctx)
}

func (d *runtimeDependencies) close(logger *log.Entry) {
	if d.store == nil {
		return
	}
	if err := d.store.Close(); err != nil {
		logger.WithError(err).Warn("failed to close postgres store")
		return
	}
	logger.Info("postgres store closed")
}

// initRuntimeDependencies открывает хранилище по cfg.StorageDriver.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		logger.Info("using in-memory storage")
		return &runtimeDependencies{repos: memoryRepositories()}, nil
	case StorageDriverPostgres:
		return initPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func memoryRepositories() backoffice.Repositories {
	return backoffice.Repositories{
		Items:     memory.NewItemRepository(),
		Customers: memory.NewCustomerRepository(),
		Orders:    memory.NewOrderRepository(),
		Addresses: memory.NewAddressRepository(),
		Timeline:  memory.NewTimelineRepository(),
	}
}

func initPostgres(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, fmt.Errorf("postgres storage requires a DSN")
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}

	if cfg.PostgresAutoMigrate {
		if err := store.MigrateUp(ctx, 0); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		state, err := store.MigrationStatus(ctx)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migration status: %w", err)
		}
		logger.WithFields(log.Fields{
			"version": state.Version,
			"applied": state.Applied,
		}).Info("postgres migrations applied")
	}

	logger.Info("using postgres storage")
	return &runtimeDependencies{
		repos: backoffice.Repositories{
			Items:     postgres.NewItemRepository(store),
			Customers: postgres.NewCustomerRepository(store),
			Orders:    postgres.NewOrderRepository(store),
			Addresses: postgres.NewAddressRepository(store),
			Timeline:  postgres.NewTimelineRepository(store),
		},
		store: store,
		probe: store.IsEmpty,
	}, nil
}
