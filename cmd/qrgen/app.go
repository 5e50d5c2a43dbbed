package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/qrforge/qrforge/pkg/logger"
	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/qrcode"
)

var errInvalidField = errors.New("invalid field")

// options is everything a single render needs.
type options struct {
	Type   payload.ContentType
	Fields payload.Fields
	Style  qrcode.Style
	Kind   qrcode.Kind
}

func newApp(log *slog.Logger) *cli.App {
	return &cli.App{
		Name:      "qrgen",
		Usage:     "render a QR code for a URL, WiFi network, contact card and more",
		UsageText: "qrgen -t TYPE -f key=value [-f key=value...] [-o FILE]",
		// Field values may contain commas.
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "content type (see --list)"},
			&cli.StringSliceFlag{Name: "field", Aliases: []string{"f"}, Usage: "content field as key=value, repeatable"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "-", Usage: "output file, - for stdout"},
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "raster or vector; defaults to the output extension"},
			&cli.IntFlag{Name: "size", Aliases: []string{"s"}, Value: qrcode.DefaultSize, Usage: "image size in pixels"},
			&cli.IntFlag{Name: "margin", Value: qrcode.DefaultMargin, Usage: "quiet zone in modules"},
			&cli.StringFlag{Name: "fg", Value: qrcode.DefaultForeground, Usage: "foreground colour"},
			&cli.StringFlag{Name: "bg", Value: qrcode.DefaultBackground, Usage: "background colour"},
			&cli.StringFlag{Name: "level", Aliases: []string{"l"}, Value: string(qrcode.DefaultLevel), Usage: "error correction level: L, M, Q or H"},
			&cli.BoolFlag{Name: "payload", Usage: "print the encoded payload instead of an image"},
			&cli.BoolFlag{Name: "list", Usage: "list content types and exit"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("list") {
				return listTypes(c.App.Writer)
			}
			return run(c, log)
		},
	}
}

func listTypes(w io.Writer) error {
	for _, t := range payload.Types() {
		if _, err := fmt.Fprintf(w, "%-10s %s\n", t.Type, t.Label); err != nil {
			return err
		}
	}
	return nil
}

func run(c *cli.Context, log *slog.Logger) error {
	t, err := payload.ParseContentType(c.String("type"))
	if err != nil {
		return fmt.Errorf("%w: %q", err, c.String("type"))
	}
	fields, err := parseFields(c.StringSlice("field"))
	if err != nil {
		return err
	}
	kind, err := outputKind(c.String("kind"), c.String("output"))
	if err != nil {
		return err
	}
	opts := options{
		Type:   t,
		Fields: fields,
		Kind:   kind,
		Style: qrcode.Style{
			Size:       c.Int("size"),
			Margin:     qrcode.Margin(c.Int("margin")),
			Foreground: c.String("fg"),
			Background: c.String("bg"),
			Level:      qrcode.Level(c.String("level")),
		},
	}

	if c.Bool("payload") {
		content, err := formatPayload(opts)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.App.Writer, content)
		return err
	}

	art, err := generate(opts)
	if err != nil {
		return err
	}

	out := c.String("output")
	if out == "-" {
		_, err = c.App.Writer.Write(art.Data)
		return err
	}
	if err := os.WriteFile(out, art.Data, 0o644); err != nil {
		return err
	}
	log.Info("qr code written",
		slog.String("file", out),
		logger.ContentType(string(t)),
		logger.OutputKind(string(art.Kind)),
		slog.Int("size", art.Size),
		slog.Int("modules", art.Modules),
	)
	return nil
}

// formatPayload validates opts and returns the string to encode.
func formatPayload(opts options) (string, error) {
	res := payload.Validate(opts.Type, opts.Fields)
	if !res.Valid {
		return "", fmt.Errorf("%w: %s", payload.ErrInvalidContent, strings.Join(res.Errors, "; "))
	}
	return payload.FormatFields(opts.Type, opts.Fields), nil
}

func generate(opts options) (*qrcode.Artifact, error) {
	content, err := formatPayload(opts)
	if err != nil {
		return nil, err
	}
	return qrcode.Render(content, opts.Style, opts.Kind)
}

// outputKind resolves --kind, falling back to the output file extension.
func outputKind(kind, output string) (qrcode.Kind, error) {
	if kind == "" {
		kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	return qrcode.ParseKind(kind)
}

// parseFields turns key=value pairs into payload.Fields. Keys are the JSON
// field names, e.g. ssid, phoneNumber, latitude.
func parseFields(pairs []string) (payload.Fields, error) {
	raw := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return payload.Fields{}, fmt.Errorf("%w: %q is not key=value", errInvalidField, pair)
		}
		switch key {
		case "latitude", "longitude":
			v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return payload.Fields{}, fmt.Errorf("%w: %s must be a number", errInvalidField, key)
			}
			raw[key] = v
		case "hidden":
			v, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return payload.Fields{}, fmt.Errorf("%w: %s must be true or false", errInvalidField, key)
			}
			raw[key] = v
		default:
			raw[key] = value
		}
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return payload.Fields{}, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var f payload.Fields
	if err := dec.Decode(&f); err != nil {
		return payload.Fields{}, fmt.Errorf("%w: %v", errInvalidField, err)
	}
	return f, nil
}
