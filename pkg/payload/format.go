package payload

import (
	"strconv"
	"strings"
)

// Format returns the wire string encoded into the QR matrix for c.
// It performs no validation: missing fields become empty segments.
// A nil Content formats to "".
func Format(c Content) string {
	if c == nil {
		return ""
	}
	return c.payload()
}

// FormatFields formats the fields relevant to t. Unknown types format to "".
func FormatFields(t ContentType, f Fields) string {
	c, err := f.Content(t)
	if err != nil {
		return ""
	}
	return c.payload()
}

func (c URL) payload() string { return c.URL }

func (c WiFi) payload() string {
	security := c.Security
	if security == "" {
		security = SecurityWPA2
	}
	return "WIFI:T:" + security +
		";S:" + c.SSID +
		";P:" + c.Password +
		";H:" + strconv.FormatBool(c.Hidden) + ";;"
}

func (c VCard) payload() string {
	lines := []string{"BEGIN:VCARD", "VERSION:3.0"}
	if c.FirstName != "" && c.LastName != "" {
		lines = append(lines, "FN:"+c.FirstName+" "+c.LastName)
	}
	if c.FirstName != "" {
		lines = append(lines, "N:"+c.LastName+";"+c.FirstName+";;;")
	}
	optional := []struct{ prefix, value, suffix string }{
		{"ORG:", c.Organization, ""},
		{"TITLE:", c.Title, ""},
		{"TEL:", c.Phone, ""},
		{"EMAIL:", c.Email, ""},
		{"URL:", c.Website, ""},
		{"ADR:;;", c.Address, ";;;;"},
	}
	for _, o := range optional {
		if o.value != "" {
			lines = append(lines, o.prefix+o.value+o.suffix)
		}
	}
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\n")
}

func (c SMS) payload() string {
	out := "sms:" + c.PhoneNumber
	if c.Message != "" {
		out += "?body=" + EncodeComponent(c.Message)
	}
	return out
}

func (c Email) payload() string {
	var params []string
	if c.Subject != "" {
		params = append(params, "subject="+EncodeComponent(c.Subject))
	}
	if c.Body != "" {
		params = append(params, "body="+EncodeComponent(c.Body))
	}
	out := "mailto:" + c.Address
	if len(params) > 0 {
		out += "?" + strings.Join(params, "&")
	}
	return out
}

func (c Text) payload() string { return c.Text }

func (c Phone) payload() string { return "tel:" + c.PhoneNumber }

func (c WhatsApp) payload() string {
	out := "https://wa.me/" + c.Number
	if c.Message != "" {
		out += "?text=" + EncodeComponent(c.Message)
	}
	return out
}

func (c Location) payload() string {
	out := "geo:" + formatCoordinate(c.Latitude) + "," + formatCoordinate(c.Longitude)
	if c.Name != "" {
		out += "?q=" + EncodeComponent(c.Name)
	}
	return out
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s the way scanner apps expect URI
// components: every byte outside A-Z a-z 0-9 - _ . ! ~ * ' ( ) is escaped,
// and spaces become %20 rather than '+'.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
