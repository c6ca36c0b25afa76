package sofort

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// InitiationResult is the normalized outcome of an initiation exchange.
// Exactly one side is populated: a redirect (payment URL + gateway transaction
// id) on success, or an error message with a cancel redirect otherwise.
type InitiationResult struct {
	RedirectURL         string
	ExternalTransaction string
	ErrorMessage        string
}

func (r InitiationResult) OK() bool {
	return r.ErrorMessage == ""
}

type errorsResponse struct {
	XMLName xml.Name       `xml:"errors"`
	Errors  []gatewayError `xml:"error"`
}

type gatewayError struct {
	Field   string `xml:"field"`
	Message string `xml:"message"`
}

type newTransactionResponse struct {
	XMLName     xml.Name `xml:"new_transaction"`
	Transaction string   `xml:"transaction"`
	PaymentURL  string   `xml:"payment_url"`
}

// ParseInitiationResponse normalizes the gateway's reply. An empty or
// unreachable response is an unauthorized/failed exchange, folded into an
// error result rather than a distinct error path; the caller still gets a
// cancel redirect to render.
func ParseInitiationResponse(body []byte) InitiationResult {
	if len(bytes.TrimSpace(body)) == 0 {
		return InitiationResult{RedirectURL: CheckoutCancelPath, ErrorMessage: "unauthorized"}
	}

	var errs errorsResponse
	if err := xml.Unmarshal(body, &errs); err == nil {
		// A single error object and a list of them arrive under the same
		// root; both collapse to one comma-joined string.
		pairs := make([]string, 0, len(errs.Errors))
		for _, e := range errs.Errors {
			pairs = append(pairs, e.Field+": "+e.Message)
		}
		return InitiationResult{
			RedirectURL:  CheckoutCancelPath,
			ErrorMessage: strings.Join(pairs, ", "),
		}
	}

	var nt newTransactionResponse
	if err := xml.Unmarshal(body, &nt); err == nil {
		return InitiationResult{
			RedirectURL:         nt.PaymentURL,
			ExternalTransaction: nt.Transaction,
		}
	}

	return InitiationResult{RedirectURL: CheckoutCancelPath, ErrorMessage: "unauthorized"}
}

// TransactionDetails is the authoritative view of a transaction returned by a
// status query.
type TransactionDetails struct {
	Time         string `xml:"time"`
	Status       string `xml:"status"`
	StatusReason string `xml:"status_reason"`
	Amount       string `xml:"amount"`
}

type transactionsResponse struct {
	XMLName xml.Name            `xml:"transactions"`
	Details *TransactionDetails `xml:"transaction_details"`
}

// ParseStatusResponse returns the transaction details of a status-query reply,
// or nil when the reply is empty, malformed, or carries no details. A nil
// result is not an error: the reconciliation still logs its default entry.
func ParseStatusResponse(body []byte) *TransactionDetails {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var res transactionsResponse
	if err := xml.Unmarshal(body, &res); err != nil {
		return nil
	}
	return res.Details
}
