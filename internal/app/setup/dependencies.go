package setup

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-commission-service/internal/config"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	publisher "github.com/LavaJover/shvark-commission-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.CommissionConfig
	Logger       *zap.Logger
	DB           *gorm.DB
	Registry     *prometheus.Registry
	Metrics      *metrics.CommissionMetrics
	Repositories *Repositories
	Reminders    domain.ReminderStore
	Publisher    domain.EventPublisher

	closers []func() error
}

type Repositories struct {
	AgentRepo domain.AgentRepository
	OrderRepo domain.OrderRepository
}

// InitializeDependencies wires storage, messaging and metrics from cfg.
// Without a database DSN agents and orders live in memory; without a
// kafka host events are not published; an unreachable redis falls back
// to in-process reminder marks.
func InitializeDependencies(ctx context.Context, cfg *config.CommissionConfig, logger *zap.Logger) (*Dependencies, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = metrics.NewCommissionMetrics(deps.Registry)

	if err := deps.initStorage(cfg, logger); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	deps.initReminders(ctx, cfg, logger)
	deps.initPublisher(cfg, logger)
	return deps, nil
}

func (d *Dependencies) initStorage(cfg *config.CommissionConfig, logger *zap.Logger) error {
	if cfg.CommissionDB.Dsn == "" {
		logger.Warn("commission_db.dsn is empty, using in-memory storage")
		store := memory.NewStore()
		d.Repositories = &Repositories{AgentRepo: store, OrderRepo: store}
		return nil
	}

	db := postgres.MustInitDB(cfg)
	if err := migrate.RunMigrations(db, cfg.CommissionDB.MigrationsPath, logger); err != nil {
		return err
	}
	d.DB = db
	d.Repositories = &Repositories{
		AgentRepo: repository.NewDefaultAgentRepository(db),
		OrderRepo: repository.NewDefaultOrderRepository(db),
	}
	d.closers = append(d.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	return nil
}

func (d *Dependencies) initReminders(ctx context.Context, cfg *config.CommissionConfig, logger *zap.Logger) {
	if cfg.Redis.Addr == "" {
		d.Reminders = memory.NewReminderMarks()
		return
	}
	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, reminder marks kept in memory", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		d.Reminders = memory.NewReminderMarks()
		return
	}
	d.Reminders = redis.NewReminderStore(client)
	d.closers = append(d.closers, client.Close)
}

func (d *Dependencies) initPublisher(cfg *config.CommissionConfig, logger *zap.Logger) {
	if cfg.KafkaService.Host == "" {
		logger.Info("kafka host not configured, events are not published")
		return
	}
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	kafkaPublisher := publisher.NewDefaultKafkaPublisher(brokers)
	d.Publisher = publisher.NewCommissionEventPublisher(kafkaPublisher, cfg.KafkaService.Topic)
	d.closers = append(d.closers, kafkaPublisher.Close)
}

// Close releases connections in reverse order of creation.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.Warn("failed to close dependency", zap.Error(err))
		}
	}
}
