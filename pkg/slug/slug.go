package slug

import (
	"crypto/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option configures the slug generation behavior.
type Option func(*config)

type config struct {
	maxLength     int
	separator     string
	lowercase     bool
	customReplace map[string]string
	suffixLength  int
}

func defaultConfig() *config {
	return &config{
		separator: "-",
		lowercase: true,
	}
}

// MaxLength caps the slug at n runes, suffix included. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// Separator sets the separator between words. Default is "-".
func Separator(s string) Option {
	return func(c *config) { c.separator = s }
}

// Lowercase controls case folding. Default is true.
func Lowercase(enabled bool) Option {
	return func(c *config) { c.lowercase = enabled }
}

// CustomReplace applies string replacements before slugification,
// for example {"&": "and"}.
func CustomReplace(replacements map[string]string) Option {
	return func(c *config) { c.customReplace = replacements }
}

// WithSuffix appends a random alphanumeric suffix of length runes,
// e.g. "hello-world-x7g3k2".
func WithSuffix(length int) Option {
	return func(c *config) { c.suffixLength = length }
}

// letters that Unicode does not decompose into a base letter plus a mark.
var ligatures = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "Æ", "AE", "œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O", "ł", "l", "Ł", "L", "đ", "d", "Đ", "D",
)

// fold strips diacritics: NFD splits é into e + U+0301, the mark is dropped
// and the rest recomposed.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, ligatures.Replace(s))
	if err != nil {
		return s
	}
	return out
}

// Make creates a URL-safe slug from s. Words are runs of ASCII letters and
// digits after diacritics are folded; everything else becomes a single
// separator.
func Make(s string, opts ...Option) string {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	for old, repl := range cfg.customReplace {
		s = strings.ReplaceAll(s, old, repl)
	}
	s = fold(s)
	if cfg.lowercase {
		s = strings.ToLower(s)
	}

	words := strings.FieldsFunc(s, func(r rune) bool {
		return !(r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
	})
	result := strings.Join(words, cfg.separator)

	limit := cfg.maxLength
	suffixLen := cfg.suffixLength
	if limit > 0 && suffixLen > limit {
		suffixLen = limit
	}
	if suffixLen > 0 && limit > 0 {
		limit -= suffixLen + len([]rune(cfg.separator))
		if limit <= 0 {
			return randomString(suffixLen, cfg.lowercase)
		}
	}
	if limit > 0 {
		result = truncate(result, limit, cfg.separator)
	}

	if suffixLen > 0 {
		suffix := randomString(suffixLen, cfg.lowercase)
		if result == "" {
			return suffix
		}
		return result + cfg.separator + suffix
	}
	return result
}

// truncate cuts s to at most n runes without leaving a trailing separator.
func truncate(s string, n int, sep string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	out := string(r[:n])
	for sep != "" && strings.HasSuffix(out, sep) {
		out = strings.TrimSuffix(out, sep)
	}
	return out
}

const (
	lowerAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	mixedAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Random returns n random characters from [a-zA-Z0-9], for short codes.
func Random(n int) string {
	return randomString(n, false)
}

func randomString(n int, lowercase bool) string {
	alphabet := mixedAlphabet
	if lowercase {
		alphabet = lowerAlphabet
	}
	// Rejection sampling keeps the distribution uniform.
	limit := byte(256 - 256%len(alphabet))
	out := make([]byte, 0, n)
	buf := make([]byte, n+n/2+1)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			panic("slug: crypto/rand failed: " + err.Error())
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out)
}
