package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// PoolRebroadcastJob periodically re-emits DealPaid for every deal that
// holds escrow but has no transporter yet. Transporters that connected after
// the original event pick the deal up from the refresh.
type PoolRebroadcastJob struct {
	uowFactory commands.DealUoWFactory
	publisher  ports.EventPublisher
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewPoolRebroadcastJob creates a new job sweeping the open pool every minute.
func NewPoolRebroadcastJob(
	uowFactory commands.DealUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) *PoolRebroadcastJob {
	return &PoolRebroadcastJob{
		uowFactory: uowFactory,
		publisher:  publisher,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "pool_rebroadcast_job"),
	}
}

// Start begins the rebroadcast job to run at the top of every minute.
func (j *PoolRebroadcastJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		if err := j.sweep(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Pool rebroadcast sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pool rebroadcast job started (running every minute)")
	return nil
}

// Stop stops the rebroadcast job.
func (j *PoolRebroadcastJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Pool rebroadcast job stopped")
}

func (j *PoolRebroadcastJob) sweep(ctx context.Context) error {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	openDeals, err := uow.DealRepository().GetOpenDeals(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, d := range openDeals {
		j.publisher.Publish(ctx, events.DealPaid{
			DealID:       d.ID(),
			OrderID:      d.OrderID(),
			VehicleClass: d.VehicleClass().String(),
			OccurredAt:   now,
		})
	}

	if len(openDeals) > 0 {
		j.logger.InfoContext(ctx, "Rebroadcast open deals", "count", len(openDeals))
	}
	return nil
}
