package qrcode

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	skipqrcode "github.com/skip2/go-qrcode"

	"github.com/qrforge/qrforge/pkg/validator"
)

// Level is a QR error-correction level. Higher levels survive more damage
// and hold less data.
type Level string

const (
	LevelLow      Level = "L" // ~7% recovery
	LevelMedium   Level = "M" // ~15% recovery
	LevelQuartile Level = "Q" // ~25% recovery
	LevelHigh     Level = "H" // ~30% recovery
)

var levels = []Level{LevelLow, LevelMedium, LevelQuartile, LevelHigh}

func (l Level) recoveryLevel() skipqrcode.RecoveryLevel {
	switch l {
	case LevelLow:
		return skipqrcode.Low
	case LevelQuartile:
		return skipqrcode.High
	case LevelHigh:
		return skipqrcode.Highest
	default:
		return skipqrcode.Medium
	}
}

// Style defaults.
const (
	DefaultSize       = 256
	DefaultMargin     = 1
	DefaultForeground = "#000000"
	DefaultBackground = "#ffffff"
	DefaultLevel      = LevelMedium

	MinSize   = 16
	MaxSize   = 4096
	MaxMargin = 64
)

// Style holds rendering parameters. Zero values mean "use the default";
// Margin is a pointer so that an explicit 0 (no quiet zone) is kept.
type Style struct {
	Size       int    `json:"size,omitempty" bson:"size,omitempty"`
	Margin     *int   `json:"margin,omitempty" bson:"margin,omitempty"`
	Foreground string `json:"foregroundColor,omitempty" bson:"foreground,omitempty"`
	Background string `json:"backgroundColor,omitempty" bson:"background,omitempty"`
	Level      Level  `json:"errorCorrectionLevel,omitempty" bson:"level,omitempty"`
}

// Resolve returns a copy of s with every default applied.
// Size <= 0 becomes DefaultSize and a nil Margin becomes DefaultMargin.
func (s Style) Resolve() Style {
	if s.Size <= 0 {
		s.Size = DefaultSize
	}
	if s.Margin == nil {
		m := DefaultMargin
		s.Margin = &m
	}
	if s.Foreground == "" {
		s.Foreground = DefaultForeground
	}
	if s.Background == "" {
		s.Background = DefaultBackground
	}
	if s.Level == "" {
		s.Level = DefaultLevel
	}
	s.Level = Level(strings.ToUpper(string(s.Level)))
	return s
}

// Validate checks a style after applying defaults.
func (s Style) Validate() error {
	r := s.Resolve()
	return validator.Apply(
		validator.RangeNum("size", r.Size, MinSize, MaxSize),
		validator.RangeNum("margin", *r.Margin, 0, MaxMargin),
		validator.ValidHexColor("foregroundColor", r.Foreground),
		validator.ValidHexColor("backgroundColor", r.Background),
		validator.OneOf("errorCorrectionLevel", r.Level, levels),
	)
}

// Key returns a stable textual form of the resolved style, for cache keys.
func (s Style) Key() string {
	r := s.Resolve()
	return fmt.Sprintf("%d|%d|%s|%s|%s", r.Size, *r.Margin,
		strings.ToLower(r.Foreground), strings.ToLower(r.Background), r.Level)
}

// Margin returns a pointer to m, for building Style values.
func Margin(m int) *int { return &m }

// parseColor converts #rgb, #rrggbb or #rrggbbaa into a color.NRGBA.
func parseColor(hex string) (color.NRGBA, error) {
	alpha := uint8(0xff)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:7]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// svgColor renders c as a #rrggbb string and an opacity in [0,1].
func svgColor(c color.NRGBA) (string, float64) {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), float64(c.A) / 255
}
