package sofort

import "fmt"

// Gateway transaction statuses with defined local behavior. Anything else is
// treated like received.
const (
	StatusLoss     = "loss"
	StatusPending  = "pending"
	StatusRefunded = "refunded"
	StatusReceived = "received"
)

// Transition is the local lifecycle change a gateway status maps to.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionComplete
	TransitionVoid
)

// DefaultAuditEntry is logged when a reconciliation got no transaction
// details back. No lifecycle transition accompanies it.
const DefaultAuditEntry = "no transaction details received from gateway\n"

// TransitionFor maps a gateway status onto the local lifecycle. The gateway's
// pending and received both count as an acceptable funds state here, so both
// complete the payment; loss and refunded void it. A blank status changes
// nothing.
//
// NOTE: this conflates the gateway's in-flight (pending) and settled
// (received) semantics on purpose, matching the live integration's behavior.
// If the two ever need to diverge, this switch is the single place to split.
func TransitionFor(status string) Transition {
	switch status {
	case "":
		return TransitionNone
	case StatusLoss, StatusRefunded:
		return TransitionVoid
	case StatusPending:
		return TransitionComplete
	default: // received and anything unrecognized
		return TransitionComplete
	}
}

// AuditLine formats the one log line a reconciliation appends.
func (d TransactionDetails) AuditLine() string {
	return fmt.Sprintf("%s: %s / %s (%s)\n", d.Time, d.Status, d.StatusReason, d.Amount)
}
