package background

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/promise-case-service/internal/usecase"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type BackgroundTasks struct {
	PartnerUsecase usecase.PartnerUsecase
	cron           *cron.Cron
	schedule       string
	logger         *zap.Logger
}

func NewBackgroundTasks(partnerUC usecase.PartnerUsecase, schedule string, logger *zap.Logger) *BackgroundTasks {
	return &BackgroundTasks{
		PartnerUsecase: partnerUC,
		cron:           cron.New(cron.WithLocation(time.UTC)),
		schedule:       schedule,
		logger:         logger,
	}
}

// Start registers the jobs and runs them until ctx is done.
func (bt *BackgroundTasks) Start(ctx context.Context) error {
	if _, err := bt.cron.AddFunc(bt.schedule, func() { bt.reconcilePresence(ctx) }); err != nil {
		return fmt.Errorf("presence reconcile schedule %q: %w", bt.schedule, err)
	}

	bt.cron.Start()
	bt.logger.Info("background tasks started", zap.String("presence_schedule", bt.schedule))

	go func() {
		<-ctx.Done()
		<-bt.cron.Stop().Done()
		bt.logger.Info("background tasks stopped")
	}()
	return nil
}

func (bt *BackgroundTasks) reconcilePresence(ctx context.Context) {
	released, err := bt.PartnerUsecase.ReconcilePresence(ctx)
	if err != nil {
		bt.logger.Warn("presence reconcile finished with errors", zap.Int("released", released), zap.Error(err))
		return
	}
	if released > 0 {
		bt.logger.Info("presence reconciled", zap.Int("released", released))
	}
}
