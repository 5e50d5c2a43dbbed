package slug_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qrforge/qrforge/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		opts     []slug.Option
		expected string
	}{
		{"simple text", "Hello World", nil, "hello-world"},
		{"punctuation", "Hello, World!", nil, "hello-world"},
		{"numbers", "Product 123", nil, "product-123"},
		{"multiple spaces", "Too    Many     Spaces", nil, "too-many-spaces"},
		{"leading and trailing", "  Trim Me  ", nil, "trim-me"},
		{"special characters", "Price: $99.99", nil, "price-99-99"},
		{"empty", "", nil, ""},
		{"only symbols", "!@#$%^&*()", nil, ""},
		{"diacritics", "Crème brûlée", nil, "creme-brulee"},
		{"ligatures", "Straße Ærø", nil, "strasse-aero"},
		{"non latin dropped", "QR 码 code", nil, "qr-code"},
		{"keep case", "Hello World", []slug.Option{slug.Lowercase(false)}, "Hello-World"},
		{"underscore", "Hello World", []slug.Option{slug.Separator("_")}, "hello_world"},
		{"max length trims separator", "Hello World Again", []slug.Option{slug.MaxLength(6)}, "hello"},
		{"custom replace", "Tom & Jerry", []slug.Option{slug.CustomReplace(map[string]string{"&": "and"})}, "tom-and-jerry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, slug.Make(tt.input, tt.opts...))
		})
	}
}

func TestMakeWithSuffix(t *testing.T) {
	t.Parallel()

	s := slug.Make("Hello World", slug.WithSuffix(6))
	assert.Regexp(t, regexp.MustCompile(`^hello-world-[a-z0-9]{6}$`), s)
	assert.NotEqual(t, s, slug.Make("Hello World", slug.WithSuffix(6)))

	s = slug.Make("A rather long blog post title", slug.WithSuffix(6), slug.MaxLength(16))
	assert.LessOrEqual(t, len([]rune(s)), 16)
	assert.True(t, strings.HasPrefix(s, "a-rather-"))

	s = slug.Make("Hello", slug.WithSuffix(10), slug.MaxLength(5))
	assert.Len(t, s, 5, "suffix alone when nothing else fits")

	assert.Len(t, slug.Make("", slug.WithSuffix(4)), 4)
}

func TestRandom(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 100 {
		s := slug.Random(8)
		assert.Regexp(t, `^[a-zA-Z0-9]{8}$`, s)
		seen[s] = true
	}
	assert.Greater(t, len(seen), 95)
	assert.Empty(t, slug.Random(0))
}
