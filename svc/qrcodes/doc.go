// Package qrcodes stores QR codes that owners save, in the Mongo "qr_codes"
// collection, with their rendered image in object storage.
//
// A dynamic code prints a short link of the form <base>/r/<shortCode>.
// Scanning it goes through Resolve, which counts the scan and returns the
// current destination, so the target can change after the code is printed.
// Only content types whose payload is a URI can be dynamic.
package qrcodes
