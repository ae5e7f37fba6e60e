package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// staleOrderCancellationReason is recorded on every order this job cancels.
const staleOrderCancellationReason = "automatically cancelled: order was not confirmed in time"

// StaleOrderCancellationJob cancels orders that sat in Pending longer than
// the configured age. Each stale order goes through the regular cancel
// command handler, so ownership of the transition stays in one place.
type StaleOrderCancellationJob struct {
	handler    commands.CancelOrderCommandHandler
	uowFactory commands.OrderUoWFactory
	maxAge     time.Duration
	systemID   kernel.UUID
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleOrderCancellationJob creates a job that sweeps Pending orders older
// than maxAge once a minute.
func NewStaleOrderCancellationJob(
	handler commands.CancelOrderCommandHandler,
	uowFactory commands.OrderUoWFactory,
	maxAge time.Duration,
	logger *slog.Logger,
) *StaleOrderCancellationJob {
	return &StaleOrderCancellationJob{
		handler:    handler,
		uowFactory: uowFactory,
		maxAge:     maxAge,
		systemID:   kernel.NewUUID(),
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "stale_order_cancellation_job"),
	}
}

// Start begins the sweep, running at the top of every minute.
func (j *StaleOrderCancellationJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		j.sweep(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale order cancellation job started (running every minute)",
		"maxAge", j.maxAge.String())
	return nil
}

// Stop stops the sweep.
func (j *StaleOrderCancellationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale order cancellation job stopped")
}

// sweep cancels every Pending order older than the cutoff. Failures on one
// order do not stop the rest of the batch.
func (j *StaleOrderCancellationJob) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-j.maxAge)

	uow := j.uowFactory.Create()
	staleOrders, err := uow.OrderRepository().GetPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale order lookup failed", "error", err)
		return
	}

	for _, staleOrder := range staleOrders {
		cmd, cmdErr := commands.NewCancelOrderCommand(
			staleOrder.ID(), staleOrderCancellationReason, j.systemID, true)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Stale order cancel command rejected",
				"orderId", staleOrder.ID().String(), "error", cmdErr)
			continue
		}

		if _, handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Stale order cancellation failed",
				"orderId", staleOrder.ID().String(), "error", handleErr)
			continue
		}

		j.logger.InfoContext(ctx, "Stale order cancelled",
			"orderId", staleOrder.ID().String(),
			"orderNumber", staleOrder.OrderNumber())
	}
}
