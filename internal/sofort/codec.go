package sofort

import (
	"encoding/base64"
	"encoding/xml"
	"net/url"
	"strconv"
	"strings"
)

// Callback paths registered with the gateway. The gateway appends nothing to
// these; the success URL carries the correlation token as a query parameter.
const (
	SuccessPath = "/sofort/success"
	CancelPath  = "/sofort/cancel"
	StatusPath  = "/sofort/status"

	// CheckoutCancelPath is where the shop sends the buyer when initiation
	// fails or the gateway rejects the session.
	CheckoutCancelPath = "/checkout/payment"
)

// InitiationRequest is the snapshot an initiation document is built from.
type InitiationRequest struct {
	Amount           float64
	CurrencyCode     string
	Reason           string
	CorrelationToken string
	BaseURL          string
	ProjectID        string
}

// multipay v1.0 is the gateway's session-initiation document. Element names,
// the root name and the version attribute are part of the wire contract.
type multipayBody struct {
	XMLName             xml.Name         `xml:"multipay"`
	Version             string           `xml:"version,attr"`
	Su                  string           `xml:"su"`
	Amount              string           `xml:"amount"`
	CurrencyCode        string           `xml:"currency_code"`
	Reasons             reasonsBlock     `xml:"reasons"`
	SuccessURL          string           `xml:"success_url"`
	SuccessLinkRedirect string           `xml:"success_link_redirect"`
	AbortURL            string           `xml:"abort_url"`
	NotificationURLs    notificationURLs `xml:"notification_urls"`
	ProjectID           string           `xml:"project_id"`
}

type reasonsBlock struct {
	Reason string `xml:"reason"`
}

type notificationURLs struct {
	NotificationURL string `xml:"notification_url"`
}

type transactionRequestBody struct {
	XMLName     xml.Name `xml:"transaction_request"`
	Version     string   `xml:"version,attr"`
	Transaction string   `xml:"transaction"`
}

// BuildInitiationRequest serializes the multipay document. The base URL must
// not carry a port: the gateway rejects notification URLs with one, so it is
// stripped here regardless of what the caller hands in.
func BuildInitiationRequest(req InitiationRequest) ([]byte, error) {
	base := StripPort(strings.TrimRight(req.BaseURL, "/"))
	body := multipayBody{
		Version:             "1.0",
		Amount:              strconv.FormatFloat(req.Amount, 'f', 2, 64),
		CurrencyCode:        req.CurrencyCode,
		Reasons:             reasonsBlock{Reason: req.Reason},
		SuccessURL:          base + SuccessPath + "?sofort_hash=" + url.QueryEscape(req.CorrelationToken),
		SuccessLinkRedirect: "1",
		AbortURL:            base + CancelPath,
		NotificationURLs:    notificationURLs{NotificationURL: base + StatusPath},
		ProjectID:           req.ProjectID,
	}
	out, err := xml.Marshal(body)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// BuildStatusQueryRequest serializes the transaction_request v2 document used
// to re-query a transaction's authoritative status.
func BuildStatusQueryRequest(transaction string) ([]byte, error) {
	out, err := xml.Marshal(transactionRequestBody{
		Version:     "2",
		Transaction: transaction,
	})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Headers builds the auth and content headers for any gateway call.
func Headers(cfg GatewayConfig) map[string]string {
	auth := base64.StdEncoding.EncodeToString([]byte(cfg.MerchantID + ":" + cfg.APIKey))
	return map[string]string{
		"Authorization": "Basic " + auth,
		"Content-Type":  "application/xml; charset=UTF-8",
		"Accept":        "application/xml; charset=UTF-8",
	}
}

// StripPort removes an explicit port from a URL, leaving it otherwise intact.
func StripPort(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	if u.Port() != "" {
		u.Host = u.Hostname()
	}
	return u.String()
}
