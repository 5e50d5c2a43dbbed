// Package qrcode renders QR code payloads as PNG or SVG images.
//
// Matrix construction (versions 1-40, Reed-Solomon error correction) is
// delegated to github.com/skip2/go-qrcode. This package owns everything
// around it: style defaults, colours, the quiet zone and the two output
// formats.
//
// # Usage
//
//	art, err := qrcode.Render("https://example.com", qrcode.Style{
//		Size:       512,
//		Margin:     qrcode.Margin(2),
//		Foreground: "#1e293b",
//		Level:      qrcode.LevelHigh,
//	}, qrcode.KindVector)
//	if err != nil {
//		return err
//	}
//	svg := art.Markup()
//
// Every artifact exposes DataURI for direct embedding in an <img> tag.
//
// # Style
//
// Zero values in Style select defaults (256px, margin 1, black on white,
// level M). Margin is a pointer: nil means the default, an explicit 0 draws
// no quiet zone at all.
//
// # Error Handling
//
//   - ErrEmptyContent: the payload was empty. Nothing is drawn.
//   - ErrInvalidStyle: size, margin, colour or level out of range; wraps
//     validator.ValidationErrors.
//   - ErrorFailedToGenerateQRCode: the library rejected the payload, usually
//     because it is too long for the chosen level. The library error is kept
//     in the chain.
package qrcode
