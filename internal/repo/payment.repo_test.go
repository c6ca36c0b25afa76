package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"sofortpay/internal/database"
	"sofortpay/internal/domain"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	pgc, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("sofortpay"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgc.Terminate(ctx) })

	dsn, err := pgc.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, database.Schema)
	require.NoError(t, err)
	return db
}

func seedPayment(t *testing.T, db *sql.DB, orders OrderRepo, payments PaymentRepo) (*domain.Order, *domain.Payment) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	order := &domain.Order{
		ID:        uuid.New(),
		Number:    "R" + uuid.NewString()[:8],
		Reference: "R1001",
		Amount:    49.90,
		Status:    domain.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	payment := &domain.Payment{
		ID:         uuid.New(),
		OrderID:    order.ID,
		Amount:     order.Amount,
		MethodCode: domain.MethodSofort,
		State:      domain.PaymentProcessing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	require.NoError(t, orders.CreateOrder(ctx, tx, order))
	require.NoError(t, payments.CreatePayment(ctx, tx, payment))
	require.NoError(t, tx.Commit())
	return order, payment
}

func TestPaymentRepoRoundTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	orders := NewOrderRepo(db)
	payments := NewPaymentRepo(db)

	order, payment := seedPayment(t, db, orders, payments)

	require.NoError(t, payments.UpdateCorrelationToken(ctx, payment.ID, "tok-1"))
	require.NoError(t, payments.UpdateExternalTransaction(ctx, payment.ID, "TX-1"))

	got, err := payments.FindByExternalTransaction(ctx, "TX-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, payment.ID, got.ID)
	assert.Equal(t, order.ID, got.OrderID)
	assert.Equal(t, "tok-1", got.CorrelationToken)

	byToken, err := payments.FindByCorrelationToken(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, byToken)
	assert.Equal(t, payment.ID, byToken.ID)

	missing, err := payments.FindByExternalTransaction(ctx, "TX-unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPaymentRepoAuditLogAppendOnly(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	orders := NewOrderRepo(db)
	payments := NewPaymentRepo(db)

	_, payment := seedPayment(t, db, orders, payments)
	require.NoError(t, payments.UpdateExternalTransaction(ctx, payment.ID, "TX-1"))

	require.NoError(t, payments.AppendAuditLog(ctx, payment.ID, "first\n"))
	require.NoError(t, payments.AppendAuditLog(ctx, payment.ID, "second\n"))

	got, err := payments.FindByExternalTransaction(ctx, "TX-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first\nsecond\n", got.AuditLog)
}

func TestPaymentRepoFindProcessingBefore(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	orders := NewOrderRepo(db)
	payments := NewPaymentRepo(db)

	_, stuck := seedPayment(t, db, orders, payments)
	_, done := seedPayment(t, db, orders, payments)
	require.NoError(t, payments.UpdateState(ctx, done.ID, domain.PaymentComplete))

	found, err := payments.FindProcessingBefore(ctx, time.Now().UTC().Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, stuck.ID, found[0].ID)
}
