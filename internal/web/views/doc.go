// Package views holds the server-rendered HTML of the live QR editor as templ
// components. The editor is driven by DataStar: inputs are bound to signals
// and every change posts them to /preview, which patches the #preview
// fragment in place.
package views
