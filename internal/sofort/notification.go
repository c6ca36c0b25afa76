package sofort

import (
	"bytes"
	"encoding/xml"
)

// Notification is the inbound status-change callback body. The gateway posts
//
//	<status_notification><transaction>...</transaction></status_notification>
//
// whenever its view of a transaction changes.
type Notification struct {
	XMLName     xml.Name `xml:"status_notification"`
	Transaction string   `xml:"transaction"`
}

// ParseNotification decodes a callback body. Malformed or foreign payloads
// come back with a blank transaction, which downstream treats as a silent
// no-op, not an error.
func ParseNotification(body []byte) Notification {
	var n Notification
	if len(bytes.TrimSpace(body)) == 0 {
		return n
	}
	if err := xml.Unmarshal(body, &n); err != nil {
		return Notification{}
	}
	return n
}
