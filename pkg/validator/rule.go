package validator

// Rule is a deferred check plus the failure it reports.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// NewRule builds a rule for field. Params always include the field name.
func NewRule(field, code, message string, check func() bool) Rule {
	return Rule{
		Check: check,
		Error: ValidationError{
			Field:   field,
			Message: message,
			Code:    code,
			Params:  map[string]any{"field": field},
		},
	}
}

// WithParam returns a copy of r with an extra message parameter.
func (r Rule) WithParam(key string, value any) Rule {
	params := make(map[string]any, len(r.Error.Params)+1)
	for k, v := range r.Error.Params {
		params[k] = v
	}
	params[key] = value
	r.Error.Params = params
	return r
}

// WithMessage returns a copy of r reporting msg.
func (r Rule) WithMessage(msg string) Rule {
	r.Error.Message = msg
	return r
}

// When makes r a no-op unless cond holds.
func (r Rule) When(cond bool) Rule {
	if cond {
		return r
	}
	r.Check = func() bool { return true }
	return r
}

// Apply runs every rule and returns the failures as ValidationErrors,
// or nil when all pass.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if r.Check != nil && !r.Check() {
			errs.Add(r.Error)
		}
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}
