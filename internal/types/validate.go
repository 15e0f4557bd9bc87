// Package types holds the request, response and domain shapes shared across ats-tailor.
package types

import "github.com/go-playground/validator/v10"

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the validator used for request structs.
func Validator() *validator.Validate {
	return validate
}
