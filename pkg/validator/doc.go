// Package validator provides small composable validation rules.
//
// A Rule pairs a Check function with the ValidationError reported when the
// check fails. Apply evaluates every rule (it never stops at the first
// failure) and returns the failures as ValidationErrors, which implements
// error and keeps rule order.
//
//	err := validator.Apply(
//	    validator.RequiredString("ssid", ssid).WithMessage("Network name is required"),
//	    validator.RequiredString("password", password).When(security != "nopass"),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, msg := range verrs.Messages() {
//	        // show msg to the user
//	    }
//	}
//
// Rules are stateless values, so the package is safe for concurrent use.
package validator
