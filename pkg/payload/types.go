package payload

import "strings"

// ContentType identifies what a QR code encodes. The set is closed.
type ContentType string

const (
	TypeURL      ContentType = "url"
	TypeWiFi     ContentType = "wifi"
	TypeVCard    ContentType = "vcard"
	TypeSMS      ContentType = "sms"
	TypeEmail    ContentType = "email"
	TypeText     ContentType = "text"
	TypePhone    ContentType = "phone"
	TypeWhatsApp ContentType = "whatsapp"
	TypeLocation ContentType = "location"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	_, ok := registry[t]
	return ok
}

func (t ContentType) String() string {
	return string(t)
}

// ParseContentType converts s to a ContentType, ignoring case and surrounding space.
func ParseContentType(s string) (ContentType, error) {
	t := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrUnknownType
	}
	return t, nil
}

// WiFi security modes understood by scanner apps.
const (
	SecurityWPA2   = "WPA2"
	SecurityWPA    = "WPA"
	SecurityWEP    = "WEP"
	SecurityNoPass = "nopass"
)
