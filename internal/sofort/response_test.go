package sofort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInitiationResponseEmpty(t *testing.T) {
	for _, body := range [][]byte{nil, {}, []byte("   \n")} {
		res := ParseInitiationResponse(body)
		assert.False(t, res.OK())
		assert.Equal(t, "unauthorized", res.ErrorMessage)
		assert.Equal(t, CheckoutCancelPath, res.RedirectURL)
		assert.Empty(t, res.ExternalTransaction)
	}
}

func TestParseInitiationResponseSingleError(t *testing.T) {
	body := []byte(`<errors><error><field>amount</field><message>Invalid amount.</message></error></errors>`)
	res := ParseInitiationResponse(body)
	assert.False(t, res.OK())
	assert.Equal(t, "amount: Invalid amount.", res.ErrorMessage)
	assert.Equal(t, CheckoutCancelPath, res.RedirectURL)
}

func TestParseInitiationResponseErrorList(t *testing.T) {
	body := []byte(`<errors>` +
		`<error><field>amount</field><message>Invalid amount.</message></error>` +
		`<error><field>currency_code</field><message>Unknown currency.</message></error>` +
		`</errors>`)
	res := ParseInitiationResponse(body)
	assert.False(t, res.OK())
	assert.Equal(t, "amount: Invalid amount., currency_code: Unknown currency.", res.ErrorMessage)
}

func TestParseInitiationResponseRedirect(t *testing.T) {
	body := []byte(`<new_transaction>` +
		`<transaction>TX-123</transaction>` +
		`<payment_url>https://gateway.example/pay/TX-123</payment_url>` +
		`</new_transaction>`)
	res := ParseInitiationResponse(body)
	assert.True(t, res.OK())
	assert.Equal(t, "TX-123", res.ExternalTransaction)
	assert.Equal(t, "https://gateway.example/pay/TX-123", res.RedirectURL)
}

func TestParseInitiationResponseGarbage(t *testing.T) {
	res := ParseInitiationResponse([]byte("<<<not xml"))
	assert.False(t, res.OK())
	assert.Equal(t, "unauthorized", res.ErrorMessage)
}

func TestParseStatusResponse(t *testing.T) {
	body := []byte(`<transactions><transaction_details>` +
		`<time>2026-08-30T10:00:00+02:00</time>` +
		`<status>received</status>` +
		`<status_reason>credited</status_reason>` +
		`<amount>49.90</amount>` +
		`</transaction_details></transactions>`)
	details := ParseStatusResponse(body)
	require.NotNil(t, details)
	assert.Equal(t, "received", details.Status)
	assert.Equal(t, "credited", details.StatusReason)
	assert.Equal(t, "49.90", details.Amount)
	assert.Equal(t, "2026-08-30T10:00:00+02:00", details.Time)
}

func TestParseStatusResponseAbsent(t *testing.T) {
	assert.Nil(t, ParseStatusResponse(nil))
	assert.Nil(t, ParseStatusResponse([]byte("")))
	assert.Nil(t, ParseStatusResponse([]byte(`<transactions />`)))
	assert.Nil(t, ParseStatusResponse([]byte("<<<not xml")))
}

func TestParseNotification(t *testing.T) {
	n := ParseNotification([]byte(`<status_notification><transaction>TX-9</transaction></status_notification>`))
	assert.Equal(t, "TX-9", n.Transaction)

	assert.Empty(t, ParseNotification(nil).Transaction)
	assert.Empty(t, ParseNotification([]byte("<other/>")).Transaction)
	assert.Empty(t, ParseNotification([]byte("<<<")).Transaction)
	assert.Empty(t, ParseNotification([]byte(`<status_notification/>`)).Transaction)
}
