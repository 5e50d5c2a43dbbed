package qrcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

// Kind selects the output representation.
type Kind string

const (
	KindRaster Kind = "raster" // PNG
	KindVector Kind = "vector" // SVG
)

// ParseKind accepts "raster"/"png" and "vector"/"svg". Empty means raster.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raster", "png":
		return KindRaster, nil
	case "vector", "svg":
		return KindVector, nil
	default:
		return "", ErrUnknownKind
	}
}

// Artifact is a rendered QR code.
type Artifact struct {
	Kind     Kind
	MIMEType string
	Data     []byte
	Size     int // output width and height in pixels
	Modules  int // symbol width in modules, quiet zone excluded
}

// DataURI returns the artifact as a base64 data URI usable in an <img> tag.
func (a *Artifact) DataURI() string {
	return "data:" + a.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// Markup returns the SVG document for vector artifacts and "" for raster ones.
func (a *Artifact) Markup() string {
	if a.Kind != KindVector {
		return ""
	}
	return string(a.Data)
}

// Extension returns the file extension matching the artifact format.
func (a *Artifact) Extension() string {
	if a.Kind == KindVector {
		return ".svg"
	}
	return ".png"
}

// Render encodes content into a QR code drawn with style.
// Empty content fails with ErrEmptyContent; errors from the QR library are
// returned joined with ErrorFailedToGenerateQRCode.
func Render(content string, style Style, kind Kind) (*Artifact, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if kind != KindRaster && kind != KindVector {
		return nil, ErrUnknownKind
	}
	if err := style.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidStyle, err)
	}
	s := style.Resolve()

	fg, err := parseColor(s.Foreground)
	if err != nil {
		return nil, errors.Join(ErrInvalidStyle, err)
	}
	bg, err := parseColor(s.Background)
	if err != nil {
		return nil, errors.Join(ErrInvalidStyle, err)
	}

	q, err := skipqrcode.New(content, s.Level.recoveryLevel())
	if err != nil {
		return nil, errors.Join(ErrorFailedToGenerateQRCode, err)
	}
	// The library always adds a 4 module border; the quiet zone is ours to size.
	q.DisableBorder = true
	m := matrix{bits: q.Bitmap(), margin: *s.Margin}

	if kind == KindVector {
		return &Artifact{
			Kind:     KindVector,
			MIMEType: "image/svg+xml",
			Data:     m.svg(s.Size, fg, bg),
			Size:     s.Size,
			Modules:  m.modules(),
		}, nil
	}

	data, size, err := m.png(s.Size, fg, bg)
	if err != nil {
		return nil, errors.Join(ErrorFailedToGenerateQRCode, err)
	}
	return &Artifact{
		Kind:     KindRaster,
		MIMEType: "image/png",
		Data:     data,
		Size:     size,
		Modules:  m.modules(),
	}, nil
}

// Generate renders content as a size x size PNG with the default style.
// A size <= 0 means DefaultSize.
func Generate(content string, size int) ([]byte, error) {
	art, err := Render(content, Style{Size: size}, KindRaster)
	if err != nil {
		return nil, err
	}
	return art.Data, nil
}

// GenerateBase64Image is Generate returning a PNG data URI.
func GenerateBase64Image(content string, size int) (string, error) {
	art, err := Render(content, Style{Size: size}, KindRaster)
	if err != nil {
		return "", err
	}
	return art.DataURI(), nil
}

// matrix is a QR bitmap without border plus the quiet zone to draw around it.
type matrix struct {
	bits   [][]bool
	margin int
}

func (m matrix) modules() int { return len(m.bits) }

// total is the symbol width in modules including the quiet zone on both sides.
func (m matrix) total() int { return len(m.bits) + 2*m.margin }

// png draws the matrix into a size x size image. Sizes smaller than one pixel
// per module grow to fit. Pixels left over after integer scaling are split
// evenly around the symbol and painted with the background.
func (m matrix) png(size int, fg, bg color.NRGBA) ([]byte, int, error) {
	total := m.total()
	if size < total {
		size = total
	}
	scale := size / total
	offset := (size-total*scale)/2 + m.margin*scale

	img := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{bg, fg})
	for y, row := range m.bits {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0, y0 := offset+x*scale, offset+y*scale
			for dy := range scale {
				start := img.PixOffset(x0, y0+dy)
				for dx := range scale {
					img.Pix[start+dx] = 1
				}
			}
		}
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), size, nil
}
