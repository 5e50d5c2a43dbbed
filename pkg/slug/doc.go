// Package slug turns titles into URL-safe identifiers and generates random
// short codes.
//
//	slug.Make("Crème brûlée & QR codes", slug.CustomReplace(map[string]string{"&": "and"}))
//	// "creme-brulee-and-qr-codes"
//
//	slug.Make("Launch notes", slug.WithSuffix(6), slug.MaxLength(24))
//	// "launch-notes-k3x9qa"
//
//	slug.Random(7) // "aZ3k9Qx", used for dynamic QR redirect codes
//
// Diacritics are folded with golang.org/x/text normalisation, so accented
// Latin text keeps its letters instead of turning into separators.
package slug
