package payload

import (
	"errors"

	"github.com/qrforge/qrforge/pkg/validator"
)

// Result is the outcome of validating QR input.
// Valid is true exactly when Errors is empty.
type Result struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`

	violations validator.ValidationErrors
}

// Err returns nil for a valid result, otherwise ErrInvalidContent joined with
// the field-level validator.ValidationErrors.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return errors.Join(ErrInvalidContent, r.violations)
}

// Violations returns the field-level failures behind Errors.
func (r Result) Violations() validator.ValidationErrors {
	return r.violations
}

// Validate checks the fields relevant to t. Every applicable rule runs and
// all failures are reported in rule order.
func Validate(t ContentType, f Fields) Result {
	c, err := f.Content(t)
	if err != nil {
		rule := validator.NewRule("type", "content_type", "Unsupported content type", func() bool { return false })
		return newResult(validator.ExtractValidationErrors(validator.Apply(rule.WithParam("type", string(t)))))
	}
	return ValidateContent(c)
}

// ValidateContent checks a typed Content value.
func ValidateContent(c Content) Result {
	if c == nil {
		return Validate("", Fields{})
	}
	return newResult(validator.ExtractValidationErrors(validator.Apply(c.rules()...)))
}

func newResult(violations validator.ValidationErrors) Result {
	return Result{
		Valid:      violations.IsEmpty(),
		Errors:     violations.Messages(),
		violations: violations,
	}
}

func (c URL) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("url", c.URL).
			WithMessage("URL is required"),
		validator.ValidURL("url", c.URL).
			WithMessage("Please enter a valid URL").
			When(c.URL != ""),
	}
}

func (c WiFi) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("ssid", c.SSID).
			WithMessage("Network name (SSID) is required"),
		validator.RequiredString("password", c.Password).
			WithMessage("Password is required for secured networks").
			When(c.Security != SecurityNoPass),
	}
}

func (c VCard) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredAnyString("name", c.FirstName, c.LastName).
			WithMessage("First name or last name is required"),
		validator.ValidEmail("email", c.Email).
			WithMessage("Please enter a valid email address").
			When(c.Email != ""),
	}
}

func (c SMS) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("phoneNumber", c.PhoneNumber).
			WithMessage("Phone number is required"),
	}
}

func (c Email) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("emailAddress", c.Address).
			WithMessage("Email address is required"),
		validator.ValidEmail("emailAddress", c.Address).
			WithMessage("Please enter a valid email address").
			When(c.Address != ""),
	}
}

func (c Text) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("text", c.Text).
			WithMessage("Text content is required"),
	}
}

func (c Phone) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("phoneNumber", c.PhoneNumber).
			WithMessage("Phone number is required"),
	}
}

func (c WhatsApp) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("whatsappNumber", c.Number).
			WithMessage("WhatsApp number is required"),
	}
}

func (c Location) rules() []validator.Rule {
	return []validator.Rule{
		validator.NewRule("coordinates", validator.CodeRequired, "Latitude and longitude are required", func() bool {
			return c.Latitude != nil && c.Longitude != nil
		}),
	}
}
