package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

const (
	CodeRequired    = "required"
	CodeRequiredAny = "required_any"
	CodeMaxLength   = "max_length"
	CodeRange       = "range"
	CodePositive    = "positive"
	CodeOneOf       = "one_of"
	CodeEmail       = "email"
	CodeURL         = "url"
	CodeHexColor    = "hex_color"
	CodeSlug        = "slug"
)

var (
	// Shape only: one @, no whitespace, a dot in the domain.
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// RequiredString fails on empty or whitespace-only values.
func RequiredString(field, value string) Rule {
	return NewRule(field, CodeRequired, "field is required", func() bool {
		return !blank(value)
	})
}

// RequiredAnyString passes when at least one value is non-blank. The
// failure is reported against field, which usually names the group.
func RequiredAnyString(field string, values ...string) Rule {
	return NewRule(field, CodeRequiredAny, "at least one value is required", func() bool {
		return slices.ContainsFunc(values, func(v string) bool { return !blank(v) })
	})
}

// MaxLenString limits value to max bytes.
func MaxLenString(field, value string, max int) Rule {
	msg := fmt.Sprintf("must be at most %d characters long", max)
	return NewRule(field, CodeMaxLength, msg, func() bool {
		return len(value) <= max
	}).WithParam("max", max)
}

// Defined fails only on nil, so a pointer to a zero value passes.
func Defined[T any](field string, value *T) Rule {
	return NewRule(field, CodeRequired, "field is required", func() bool {
		return value != nil
	})
}

// RangeNum checks min <= value <= max.
func RangeNum[T Numeric](field string, value, min, max T) Rule {
	msg := fmt.Sprintf("must be between %v and %v", min, max)
	return NewRule(field, CodeRange, msg, func() bool {
		return value >= min && value <= max
	}).WithParam("min", min).WithParam("max", max)
}

// Positive checks value > 0.
func Positive[T Numeric](field string, value T) Rule {
	return NewRule(field, CodePositive, "must be greater than zero", func() bool {
		return value > 0
	})
}

// OneOf checks value against a fixed set.
func OneOf[T comparable](field string, value T, options []T) Rule {
	msg := fmt.Sprintf("must be one of: %v", options)
	return NewRule(field, CodeOneOf, msg, func() bool {
		return slices.Contains(options, value)
	}).WithParam("allowed_values", options)
}

// ValidEmail checks the local@domain.tld shape.
func ValidEmail(field, value string) Rule {
	return NewRule(field, CodeEmail, "must be a valid email address", func() bool {
		return emailPattern.MatchString(value)
	})
}

// ValidURL accepts absolute URLs with a host. A missing scheme is read as
// https, so "example.com/path" passes.
func ValidURL(field, value string) Rule {
	return NewRule(field, CodeURL, "must be a valid URL", func() bool {
		return IsURL(value)
	})
}

// IsURL reports whether value passes ValidURL.
func IsURL(value string) bool {
	value = NormalizeURL(value)
	if value == "" {
		return false
	}
	u, err := url.Parse(value)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// NormalizeURL trims value and adds https:// when it has no scheme, which
// is how ValidURL reads it. An empty value stays empty.
func NormalizeURL(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.Contains(value, "://") {
		return value
	}
	return "https://" + value
}

// ValidHexColor accepts #rgb, #rrggbb and #rrggbbaa.
func ValidHexColor(field, value string) Rule {
	return NewRule(field, CodeHexColor, "must be a hex colour like #000000", func() bool {
		return hexColorPattern.MatchString(value)
	})
}

// ValidSlug accepts lowercase words joined by single hyphens.
func ValidSlug(field, value string) Rule {
	return NewRule(field, CodeSlug, "must contain only lowercase letters, digits and hyphens", func() bool {
		return slugPattern.MatchString(value)
	})
}
