package sofort

import "fmt"

// ConfigError reports a blank or malformed gateway config key. Fatal for the
// operation; surfaced to the caller.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "sofort: config key " + e.Reason
}

// ValidationError reports a missing or mismatched order/payment/method. Fatal;
// surfaced to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "sofort: " + e.Reason
}

// NotFoundError reports a notification referencing a transaction no local
// payment carries. Surfaced, not swallowed: it indicates a data-integrity
// problem worth alerting on.
type NotFoundError struct {
	Transaction string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sofort: no payment for transaction %q", e.Transaction)
}
