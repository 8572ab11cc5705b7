package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/promise-case-service/internal/config"
	"github.com/LavaJover/promise-case-service/internal/domain"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/kafka"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/logger"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/memory"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/metrics"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/migrate"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/notifier"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres"
	"github.com/LavaJover/promise-case-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	eventQueueSize       = 4096
	eventDeliveryTimeout = 15 * time.Second
)

type Dependencies struct {
	Config       *config.CaseConfig
	Logger       *zap.Logger
	DB           *gorm.DB
	Registry     *prometheus.Registry
	Metrics      *metrics.CaseMetrics
	Repositories *Repositories
	EventSink    domain.EventSink
	// Ping is nil when the store lives in process.
	Ping func(ctx context.Context) error

	kafkaPublisher *kafka.DefaultKafkaPublisher
	dispatcher     *notifier.Dispatcher
}

type Repositories struct {
	CaseRepo       domain.CaseRepository
	PartnerRepo    domain.PartnerRepository
	SettlementRepo domain.SettlementRepository
	DepositRepo    domain.DepositRepository
	Transactor     domain.Transactor
}

func InitializeDependencies(cfg *config.CaseConfig, log *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	}
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewCaseMetrics(deps.Registry)

	sinks := notifier.Fanout{}

	switch cfg.CaseDB.Driver {
	case DriverMemory:
		store := memory.NewStore()
		deps.Repositories = &Repositories{
			CaseRepo:       store,
			PartnerRepo:    store,
			SettlementRepo: store,
			DepositRepo:    store,
			Transactor:     store,
		}
		log.Warn("using in-memory case store; state is lost on restart")

	case DriverPostgres:
		db := postgres.MustInitDB(cfg)
		if cfg.CaseDB.MigrationsPath != "" {
			if err := migrate.RunMigrations(db, cfg.CaseDB.MigrationsPath, log); err != nil {
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		deps.DB = db
		deps.Repositories = &Repositories{
			CaseRepo:       repository.NewDefaultCaseRepository(db),
			PartnerRepo:    repository.NewDefaultPartnerRepository(db),
			SettlementRepo: repository.NewDefaultSettlementRepository(db),
			DepositRepo:    repository.NewDefaultDepositRepository(db),
			Transactor:     repository.NewGormTransactor(db),
		}
		deps.Ping = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
		sinks = append(sinks, logger.NewPGCaseEventLogger(db))

	default:
		return nil, fmt.Errorf("unknown case_db driver %q", cfg.CaseDB.Driver)
	}

	if len(cfg.KafkaService.Brokers) > 0 {
		deps.kafkaPublisher = kafka.NewDefaultKafkaPublisher(cfg.KafkaService.Brokers)
		sinks = append(sinks, kafka.NewCaseEventPublisher(deps.kafkaPublisher, cfg.KafkaService.Topic, log))
	}
	if cfg.Webhook.URL != "" {
		timeout := time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second
		sinks = append(sinks, notifier.NewWebhookSink(cfg.Webhook.URL, timeout, log))
	}
	// Delivery runs on the dispatcher's worker, never on the request path.
	deps.dispatcher = notifier.NewDispatcher(sinks, eventQueueSize, eventDeliveryTimeout, log)
	deps.EventSink = deps.dispatcher

	return deps, nil
}

func (d *Dependencies) Close() {
	if d.dispatcher != nil {
		d.dispatcher.Close()
	}
	if d.kafkaPublisher != nil {
		if err := d.kafkaPublisher.Close(); err != nil {
			d.Logger.Warn("failed to close kafka writer", zap.Error(err))
		}
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
