// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// `Load` calls Validate immediately after it unmarshals the merged Koanf
// tree.  Any validation error aborts startup so the engine never runs with
// a missing base URL, templates dir, or namespace.  Callers that build a
// Config by hand (tests, embedding apps) call Validate themselves.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

// Validate returns the first validation error, or nil on success.
func Validate(c *Config) error {
	return v.Struct(c)
}
