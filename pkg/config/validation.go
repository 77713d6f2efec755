package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	msg := "configuration validation failed:"
	for _, err := range e {
		msg += fmt.Sprintf("\n  - %s", err.Error())
	}
	return msg
}

// Validator is a function that validates configuration and returns errors
type Validator func() ValidationErrors

// Validate runs multiple validators and combines their errors
func Validate(validators ...Validator) error {
	var allErrors ValidationErrors
	for _, validator := range validators {
		allErrors = append(allErrors, validator()...)
	}
	if len(allErrors) > 0 {
		return allErrors
	}
	return nil
}

// ValidateService checks the shared service settings
func ValidateService(c ServiceConfig) Validator {
	return func() ValidationErrors {
		var errs ValidationErrors
		if c.Port <= 0 || c.Port > 65535 {
			errs = append(errs, ValidationError{Field: "APP_PORT", Message: fmt.Sprintf("invalid port %d", c.Port)})
		}
		switch c.PersistenceType {
		case PersistencePostgres, PersistenceMemory:
		default:
			errs = append(errs, ValidationError{
				Field:   "PERSISTENCE_TYPE",
				Message: fmt.Sprintf("unsupported persistence type %q (supported: postgres, memory)", c.PersistenceType),
			})
		}
		prefixes := []struct{ field, value string }{
			{"PREFIX_LABS", c.Prefix.Labs},
			{"PREFIX_RESULTS", c.Prefix.Results},
			{"PREFIX_USERS", c.Prefix.Users},
			{"PREFIX_ROLES", c.Prefix.Roles},
			{"PREFIX_METRICS", c.Prefix.Metrics},
		}
		for _, p := range prefixes {
			if !strings.HasPrefix(p.value, "/") {
				errs = append(errs, ValidationError{Field: p.field, Message: fmt.Sprintf("must start with '/', got %q", p.value)})
			}
		}
		return errs
	}
}

// ValidateRoles checks role resolution settings
func ValidateRoles(c RoleConfig) Validator {
	return func() ValidationErrors {
		if c.DefaultRole == "" {
			return ValidationErrors{{Field: "DEFAULT_ROLE", Message: "must not be empty"}}
		}
		return nil
	}
}

// ValidatePassword checks password settings
func ValidatePassword(c PasswordConfig) Validator {
	return func() ValidationErrors {
		if c.MinLength < 1 {
			return ValidationErrors{{Field: "PASSWORD_MIN_LENGTH", Message: "must be at least 1"}}
		}
		return nil
	}
}
