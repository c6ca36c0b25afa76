package service

import (
	"context"

	"sofortpay/internal/domain"
	"sofortpay/internal/repo"
)

// Lifecycle exposes the two transitions the reconciler may apply. The state
// machine behind them is owned elsewhere; the orchestrator only invokes it.
type Lifecycle interface {
	Complete(ctx context.Context, payment *domain.Payment) error
	Void(ctx context.Context, payment *domain.Payment) error
}

type repoLifecycle struct {
	payments repo.PaymentRepo
}

func NewLifecycle(payments repo.PaymentRepo) Lifecycle {
	return &repoLifecycle{payments: payments}
}

func (l *repoLifecycle) Complete(ctx context.Context, payment *domain.Payment) error {
	if err := l.payments.UpdateState(ctx, payment.ID, domain.PaymentComplete); err != nil {
		return err
	}
	payment.State = domain.PaymentComplete
	return nil
}

func (l *repoLifecycle) Void(ctx context.Context, payment *domain.Payment) error {
	if err := l.payments.UpdateState(ctx, payment.ID, domain.PaymentVoid); err != nil {
		return err
	}
	payment.State = domain.PaymentVoid
	return nil
}
