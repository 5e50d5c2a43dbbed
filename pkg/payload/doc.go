// Package payload turns QR code input into the exact text a scanner reads.
//
// Nine content types are supported (url, wifi, vcard, sms, email, text,
// phone, whatsapp, location). Input arrives either as a loosely typed Fields
// bag, as submitted by a form, or as one of the typed Content variants. The
// package offers three pure operations:
//
//   - Validate / ValidateContent report every rule violation for the type.
//   - Format / FormatFields build the wire string (WIFI:..., BEGIN:VCARD...,
//     mailto:, tel:, geo:, ...).
//   - Types / Label / Icon describe the taxonomy for pickers.
//
// Callers validate before formatting. Format never validates and never fails;
// missing fields simply produce empty segments.
//
//	fields := payload.Fields{SSID: "Home", Password: "secret"}
//	if res := payload.Validate(payload.TypeWiFi, fields); !res.Valid {
//		return res.Err()
//	}
//	wire := payload.FormatFields(payload.TypeWiFi, fields)
//	// WIFI:T:WPA2;S:Home;P:secret;H:false;;
package payload
