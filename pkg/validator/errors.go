package validator

import (
	"errors"
	"strings"
)

// ValidationError is one failed rule. Code identifies the rule kind
// (for example "required" or "range") and Params carries the values a
// localized message would interpolate.
type ValidationError struct {
	Field   string
	Message string
	Code    string
	Params  map[string]any
}

func (e ValidationError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors keeps failures in the order their rules were applied.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, e := range ve {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.String())
	}
	return b.String()
}

func (ve *ValidationErrors) Add(err ValidationError) { *ve = append(*ve, err) }

func (ve ValidationErrors) IsEmpty() bool { return len(ve) == 0 }

func (ve ValidationErrors) Has(field string) bool { return len(ve.Get(field)) > 0 }

// Get returns the messages recorded for field.
func (ve ValidationErrors) Get(field string) []string {
	return ve.Map()[field]
}

// Messages returns every message in rule order.
func (ve ValidationErrors) Messages() []string {
	out := make([]string, len(ve))
	for i, e := range ve {
		out[i] = e.Message
	}
	return out
}

// Fields returns the distinct failing fields in first-seen order.
func (ve ValidationErrors) Fields() []string {
	var out []string
	for i, e := range ve {
		if !ve[:i].Has(e.Field) {
			out = append(out, e.Field)
		}
	}
	return out
}

// Map groups messages by field, the shape HTTP error bodies use.
func (ve ValidationErrors) Map() map[string][]string {
	out := make(map[string][]string, len(ve))
	for _, e := range ve {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// ExtractValidationErrors finds ValidationErrors anywhere in err's chain.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if err != nil && errors.As(err, &ve) {
		return ve
	}
	return nil
}

func IsValidationError(err error) bool {
	return ExtractValidationErrors(err) != nil
}
