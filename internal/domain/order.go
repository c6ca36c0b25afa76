package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending OrderStatus = "PENDING"
	OrderPaid    OrderStatus = "PAID"
	OrderFailed  OrderStatus = "FAILED"
)

type Order struct {
	ID        uuid.UUID
	Number    string
	Reference string
	Amount    float64
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
