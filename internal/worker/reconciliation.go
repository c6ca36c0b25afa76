package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sofortpay/internal/repo"
	"sofortpay/internal/service"
	"sofortpay/internal/sofort"
)

const sweepBatchSize = 50

// ReconciliationWorker re-queries the gateway for payments stuck in
// processing, so a missed or dropped status notification self-heals. It runs
// each payment through the same reconcile path a notification would, and
// therefore under the same per-transaction lock.
type ReconciliationWorker struct {
	payments  repo.PaymentRepo
	svc       service.PaymentService
	interval  time.Duration
	olderThan time.Duration
	logger    *zap.Logger
}

func NewReconciliationWorker(
	payments repo.PaymentRepo,
	svc service.PaymentService,
	interval, olderThan time.Duration,
	logger *zap.Logger,
) *ReconciliationWorker {
	return &ReconciliationWorker{
		payments:  payments,
		svc:       svc,
		interval:  interval,
		olderThan: olderThan,
		logger:    logger,
	}
}

func (rw *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	rw.logger.Info("reconciliation worker started", zap.Duration("interval", rw.interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rw.sweep(ctx); err != nil {
				rw.logger.Error("reconciliation sweep failed", zap.Error(err))
			}
		}
	}
}

func (rw *ReconciliationWorker) sweep(ctx context.Context) error {
	stuck, err := rw.payments.FindProcessingBefore(ctx, time.Now().Add(-rw.olderThan), sweepBatchSize)
	if err != nil {
		return err
	}
	if len(stuck) == 0 {
		return nil
	}

	rw.logger.Info("sweeping stuck payments", zap.Int("count", len(stuck)))

	for _, p := range stuck {
		if p.ExternalTransaction == "" {
			// Never reached the gateway; nothing to query.
			continue
		}
		n := sofort.Notification{Transaction: p.ExternalTransaction}
		if err := rw.svc.Reconcile(ctx, n); err != nil {
			rw.logger.Warn("sweep reconcile failed",
				zap.String("transaction", p.ExternalTransaction),
				zap.Error(err))
		}
	}
	return nil
}
