package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"sofortpay/internal/domain"
)

type PaymentRepo interface {
	CreatePayment(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error
	FindLastByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error)
	FindByExternalTransaction(ctx context.Context, transaction string) (*domain.Payment, error)
	FindByCorrelationToken(ctx context.Context, token string) (*domain.Payment, error)
	UpdateCorrelationToken(ctx context.Context, id uuid.UUID, token string) error
	UpdateExternalTransaction(ctx context.Context, id uuid.UUID, transaction string) error
	UpdateState(ctx context.Context, id uuid.UUID, state domain.PaymentState) error
	// AppendAuditLog appends one entry to the payment's log. Prior entries are
	// never rewritten; the append happens in SQL so concurrent writers cannot
	// lose each other's lines.
	AppendAuditLog(ctx context.Context, id uuid.UUID, entry string) error
	FindProcessingBefore(ctx context.Context, before time.Time, limit int) ([]domain.Payment, error)
}

type paymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) PaymentRepo {
	return &paymentRepo{db: db}
}

const paymentColumns = "id, order_id, amount, method_code, state, external_transaction, correlation_token, audit_log, created_at, updated_at"

func (r *paymentRepo) CreatePayment(ctx context.Context, tx *sql.Tx, p *domain.Payment) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO payments ("+paymentColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
		p.ID, p.OrderID, p.Amount, p.MethodCode, p.State,
		p.ExternalTransaction, p.CorrelationToken, p.AuditLog, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *paymentRepo) FindLastByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE order_id = $1 ORDER BY created_at DESC LIMIT 1",
		orderID,
	)
	return scanPayment(row)
}

func (r *paymentRepo) FindByExternalTransaction(ctx context.Context, transaction string) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE external_transaction = $1",
		transaction,
	)
	return scanPayment(row)
}

func (r *paymentRepo) FindByCorrelationToken(ctx context.Context, token string) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE correlation_token = $1",
		token,
	)
	return scanPayment(row)
}

func (r *paymentRepo) UpdateCorrelationToken(ctx context.Context, id uuid.UUID, token string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE payments SET correlation_token = $1, updated_at = now() WHERE id = $2",
		token, id,
	)
	return err
}

func (r *paymentRepo) UpdateExternalTransaction(ctx context.Context, id uuid.UUID, transaction string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE payments SET external_transaction = $1, updated_at = now() WHERE id = $2",
		transaction, id,
	)
	return err
}

func (r *paymentRepo) UpdateState(ctx context.Context, id uuid.UUID, state domain.PaymentState) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE payments SET state = $1, updated_at = now() WHERE id = $2",
		state, id,
	)
	return err
}

func (r *paymentRepo) AppendAuditLog(ctx context.Context, id uuid.UUID, entry string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE payments SET audit_log = audit_log || $1, updated_at = now() WHERE id = $2",
		entry, id,
	)
	return err
}

func (r *paymentRepo) FindProcessingBefore(ctx context.Context, before time.Time, limit int) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE state = $1 AND updated_at < $2 LIMIT $3",
		domain.PaymentProcessing, before, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(
			&p.ID,
			&p.OrderID,
			&p.Amount,
			&p.MethodCode,
			&p.State,
			&p.ExternalTransaction,
			&p.CorrelationToken,
			&p.AuditLog,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPayment(row *sql.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.OrderID,
		&p.Amount,
		&p.MethodCode,
		&p.State,
		&p.ExternalTransaction,
		&p.CorrelationToken,
		&p.AuditLog,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
