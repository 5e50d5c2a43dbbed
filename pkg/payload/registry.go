package payload

// TypeInfo describes a content type for pickers and listings.
type TypeInfo struct {
	Type  ContentType `json:"type"`
	Label string      `json:"label"`
	Icon  string      `json:"icon"`
}

var registry = map[ContentType]TypeInfo{
	TypeURL:      {Type: TypeURL, Label: "Website URL", Icon: "link"},
	TypeWiFi:     {Type: TypeWiFi, Label: "WiFi Network", Icon: "wifi"},
	TypeVCard:    {Type: TypeVCard, Label: "Contact Card", Icon: "contact"},
	TypeSMS:      {Type: TypeSMS, Label: "SMS Message", Icon: "message-square"},
	TypeEmail:    {Type: TypeEmail, Label: "Email", Icon: "mail"},
	TypeText:     {Type: TypeText, Label: "Plain Text", Icon: "type"},
	TypePhone:    {Type: TypePhone, Label: "Phone Number", Icon: "phone"},
	TypeWhatsApp: {Type: TypeWhatsApp, Label: "WhatsApp", Icon: "message-circle"},
	TypeLocation: {Type: TypeLocation, Label: "Location", Icon: "map-pin"},
}

// order is the display order used by Types.
var order = []ContentType{
	TypeURL, TypeWiFi, TypeVCard, TypeSMS, TypeEmail,
	TypeText, TypePhone, TypeWhatsApp, TypeLocation,
}

// Types returns every content type in display order.
func Types() []TypeInfo {
	out := make([]TypeInfo, 0, len(order))
	for _, t := range order {
		out = append(out, registry[t])
	}
	return out
}

// Label returns the display label for t, or the raw type name when unknown.
func Label(t ContentType) string {
	if info, ok := registry[t]; ok {
		return info.Label
	}
	return string(t)
}

// Icon returns the icon glyph name for t, or "qr-code" when unknown.
func Icon(t ContentType) string {
	if info, ok := registry[t]; ok {
		return info.Icon
	}
	return "qr-code"
}
