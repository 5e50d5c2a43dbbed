package views

import "github.com/qrforge/qrforge/pkg/payload"

// input describes one editor control bound to a fields.* signal.
type input struct {
	Name    string // JSON name inside payload.Fields
	Label   string
	Kind    string   // HTML input type, "textarea", "select" or "checkbox"
	Options []string // for selects
}

// inputs lists the editor controls per content type, in form order.
var inputs = map[payload.ContentType][]input{
	payload.TypeURL: {
		{Name: "url", Label: "Website URL", Kind: "url"},
	},
	payload.TypeWiFi: {
		{Name: "ssid", Label: "Network name (SSID)", Kind: "text"},
		{Name: "password", Label: "Password", Kind: "text"},
		{Name: "security", Label: "Security", Kind: "select", Options: []string{
			payload.SecurityWPA2, payload.SecurityWPA, payload.SecurityWEP, payload.SecurityNoPass,
		}},
		{Name: "hidden", Label: "Hidden network", Kind: "checkbox"},
	},
	payload.TypeVCard: {
		{Name: "firstName", Label: "First name", Kind: "text"},
		{Name: "lastName", Label: "Last name", Kind: "text"},
		{Name: "organization", Label: "Organization", Kind: "text"},
		{Name: "title", Label: "Job title", Kind: "text"},
		{Name: "phone", Label: "Phone", Kind: "tel"},
		{Name: "email", Label: "Email", Kind: "email"},
		{Name: "website", Label: "Website", Kind: "url"},
		{Name: "address", Label: "Address", Kind: "text"},
	},
	payload.TypeSMS: {
		{Name: "phoneNumber", Label: "Phone number", Kind: "tel"},
		{Name: "message", Label: "Message", Kind: "textarea"},
	},
	payload.TypeEmail: {
		{Name: "emailAddress", Label: "Email address", Kind: "email"},
		{Name: "subject", Label: "Subject", Kind: "text"},
		{Name: "body", Label: "Body", Kind: "textarea"},
	},
	payload.TypeText: {
		{Name: "text", Label: "Text", Kind: "textarea"},
	},
	payload.TypePhone: {
		{Name: "phoneNumber", Label: "Phone number", Kind: "tel"},
	},
	payload.TypeWhatsApp: {
		{Name: "whatsappNumber", Label: "WhatsApp number", Kind: "tel"},
		{Name: "whatsappMessage", Label: "Message", Kind: "textarea"},
	},
	payload.TypeLocation: {
		{Name: "latitude", Label: "Latitude", Kind: "number"},
		{Name: "longitude", Label: "Longitude", Kind: "number"},
		{Name: "locationName", Label: "Place name", Kind: "text"},
	},
}
