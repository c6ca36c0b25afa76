package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentState string

const (
	PaymentPending    PaymentState = "PENDING"
	PaymentProcessing PaymentState = "PROCESSING"
	PaymentComplete   PaymentState = "COMPLETE"
	PaymentVoid       PaymentState = "VOID"
)

// MethodSofort is the only payment method this service drives. Payments
// carrying any other method code are rejected before a gateway call is made.
const MethodSofort = "sofort"

type Payment struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	Amount     float64
	MethodCode string
	State      PaymentState

	// ExternalTransaction is the gateway-assigned session id, the lookup key
	// for inbound status notifications.
	ExternalTransaction string

	// CorrelationToken binds the success-callback URL to this payment. It is
	// recomputable from (order number, payment id, config key), never random.
	CorrelationToken string

	// AuditLog is append-only; each reconciliation adds exactly one line.
	AuditLog string

	CreatedAt time.Time
	UpdatedAt time.Time
}
