package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qrforge/qrforge/pkg/sanitizer"
)

func TestSingleLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips tags and unescapes entities",
			input:    "<b>Fish &amp; Chips</b>",
			expected: "Fish & Chips",
		},
		{
			name:     "collapses newlines and tabs",
			input:    "  Spring\n\tmenu  ",
			expected: "Spring menu",
		},
		{
			name:     "drops control characters",
			input:    "bell\x07 and\x00null",
			expected: "bell andnull",
		},
		{
			name:     "empty stays empty",
			input:    "",
			expected: "",
		},
		{
			name:     "only markup becomes empty",
			input:    "<br/><hr>",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizer.SingleLine(tt.input))
		})
	}
}

func TestApplyAndCompose(t *testing.T) {
	t.Parallel()

	upper := strings.ToUpper
	assert.Equal(t, "HI", sanitizer.Apply("  hi ", sanitizer.Trim, upper))
	assert.Equal(t, "x", sanitizer.Apply("x"))

	pipeline := sanitizer.Compose(sanitizer.StripHTML, sanitizer.Trim)
	assert.Equal(t, "link", pipeline(" <a href=\"#\">link</a> "))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "héllo", sanitizer.Truncate("héllo", 5))
	assert.Equal(t, "hé", sanitizer.Truncate("héllo", 2))
	assert.Equal(t, "ab", sanitizer.Truncate("ab  cd", 3))
	assert.Equal(t, "", sanitizer.Truncate("abc", 0))
}

func TestTags(t *testing.T) {
	t.Parallel()

	t.Run("normalizes and dedupes in order", func(t *testing.T) {
		got := sanitizer.Tags([]string{" Go ", "qr", "GO", "", "  ", "<i>QR</i>", "wifi codes"})
		assert.Equal(t, []string{"go", "qr", "wifi codes"}, got)
	})

	t.Run("nil input gives empty slice", func(t *testing.T) {
		got := sanitizer.Tags(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestLimit(t *testing.T) {
	t.Parallel()

	items := []string{"a", "b", "c"}
	assert.Equal(t, []string{"a", "b"}, sanitizer.Limit(items, 2))
	assert.Equal(t, items, sanitizer.Limit(items, 5))
	assert.Empty(t, sanitizer.Limit(items, -1))
}
