package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"sofortpay/internal/domain"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *fakeOrderRepo) CreateOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[order.ID]; ok {
		o.Status = order.Status
	}
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*domain.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*domain.Payment)}
}

func (r *fakePaymentRepo) CreatePayment(ctx context.Context, tx *sql.Tx, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindLastByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *domain.Payment
	for _, p := range r.payments {
		if p.OrderID != orderID {
			continue
		}
		if last == nil || p.CreatedAt.After(last.CreatedAt) {
			last = p
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (r *fakePaymentRepo) FindByExternalTransaction(ctx context.Context, transaction string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ExternalTransaction == transaction {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByCorrelationToken(ctx context.Context, token string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.CorrelationToken == token {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) UpdateCorrelationToken(ctx context.Context, id uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		p.CorrelationToken = token
	}
	return nil
}

func (r *fakePaymentRepo) UpdateExternalTransaction(ctx context.Context, id uuid.UUID, transaction string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		p.ExternalTransaction = transaction
	}
	return nil
}

func (r *fakePaymentRepo) UpdateState(ctx context.Context, id uuid.UUID, state domain.PaymentState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		p.State = state
	}
	return nil
}

func (r *fakePaymentRepo) AppendAuditLog(ctx context.Context, id uuid.UUID, entry string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		p.AuditLog += entry
	}
	return nil
}

func (r *fakePaymentRepo) FindProcessingBefore(ctx context.Context, before time.Time, limit int) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Payment
	for _, p := range r.payments {
		if p.State == domain.PaymentProcessing && p.UpdatedAt.Before(before) {
			out = append(out, *p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) get(id uuid.UUID) *domain.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

// fakeTransport records every call and replies from a scripted queue.
type fakeTransport struct {
	mu      sync.Mutex
	replies [][]byte
	errs    []error

	URLs    []string
	Headers []map[string]string
	Bodies  [][]byte
}

func (t *fakeTransport) reply(body []byte, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, body)
	t.errs = append(t.errs, err)
}

func (t *fakeTransport) Post(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.URLs = append(t.URLs, url)
	t.Headers = append(t.Headers, headers)
	t.Bodies = append(t.Bodies, body)
	if len(t.replies) == 0 {
		return nil, nil
	}
	res, err := t.replies[0], t.errs[0]
	t.replies, t.errs = t.replies[1:], t.errs[1:]
	return res, err
}
