package qrcodes

import (
	"time"

	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/qrcode"
)

// Code is a saved QR code. Static codes print their formatted content;
// dynamic codes print a short redirect link and send scanners on to
// Destination, which can change after printing.
type Code struct {
	ID            string              `json:"id" bson:"_id"`
	OwnerID       string              `json:"ownerId" bson:"owner_id"`
	Name          string              `json:"name" bson:"name"`
	Type          payload.ContentType `json:"type" bson:"type"`
	Fields        payload.Fields      `json:"fields" bson:"fields"`
	Style         qrcode.Style        `json:"style" bson:"style"`
	Kind          qrcode.Kind         `json:"kind" bson:"kind"`
	Payload       string              `json:"payload" bson:"payload"`
	Dynamic       bool                `json:"dynamic" bson:"dynamic"`
	ShortCode     string              `json:"shortCode,omitempty" bson:"short_code,omitempty"`
	Destination   string              `json:"destination,omitempty" bson:"destination,omitempty"`
	ImageKey      string              `json:"-" bson:"image_key"`
	ImageURL      string              `json:"imageUrl" bson:"image_url"`
	Scans         int64               `json:"scans" bson:"scans"`
	LastScannedAt *time.Time          `json:"lastScannedAt,omitempty" bson:"last_scanned_at,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updated_at"`
}

// CreateInput is the request to save a new code.
type CreateInput struct {
	Name    string              `json:"name"`
	Type    payload.ContentType `json:"type"`
	Fields  payload.Fields      `json:"fields"`
	Style   qrcode.Style        `json:"style"`
	Kind    qrcode.Kind         `json:"kind"`
	Dynamic bool                `json:"dynamic"`
}

// UpdateInput changes a saved code. Nil fields are left as they are.
// The content type and the dynamic flag are fixed at creation.
type UpdateInput struct {
	Name   *string         `json:"name,omitempty"`
	Fields *payload.Fields `json:"fields,omitempty"`
	Style  *qrcode.Style   `json:"style,omitempty"`
}

// ListOptions pages through an owner's codes, newest first.
type ListOptions struct {
	Limit  int
	Offset int
	Type   payload.ContentType
}

// Page is one page of codes plus the total matching count.
type Page struct {
	Items []Code `json:"items"`
	Total int64  `json:"total"`
}

const (
	defaultLimit  = 20
	maxLimit      = 100
	maxNameLength = 120
)

func (o ListOptions) normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	o.Limit = min(o.Limit, maxLimit)
	o.Offset = max(o.Offset, 0)
	return o
}

// dynamicTypes are the content types whose formatted payload is a URI a
// browser can be redirected to.
var dynamicTypes = map[payload.ContentType]bool{
	payload.TypeURL:      true,
	payload.TypeSMS:      true,
	payload.TypeEmail:    true,
	payload.TypePhone:    true,
	payload.TypeWhatsApp: true,
	payload.TypeLocation: true,
}

// SupportsDynamic reports whether codes of type t can be dynamic.
func SupportsDynamic(t payload.ContentType) bool {
	return dynamicTypes[t]
}
