package config

import (
	"fmt"
	"strings"

	"arity-generator/internal/oracle"
	"arity-generator/internal/search"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}

	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if len(c.Packages) == 0 {
		errs = append(errs, ValidationError{Field: "packages", Message: "at least one package pattern is required"})
	}

	if len(c.Records) == 0 && len(c.Pairs) == 0 && !c.Discover {
		errs = append(errs, ValidationError{
			Field:   "records",
			Message: "nothing to resolve: set records, pairs or discover",
		})
	}

	for i, r := range c.Records {
		if strings.TrimSpace(r) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("records[%d]", i), Message: "empty type reference"})
		}
	}

	names := make(map[string]bool)
	for i, p := range c.Pairs {
		field := fmt.Sprintf("pairs[%d]", i)
		if p.Legacy == "" {
			errs = append(errs, ValidationError{Field: field + ".legacy", Message: "is required"})
		}

		if p.Wrapper == "" {
			errs = append(errs, ValidationError{Field: field + ".wrapper", Message: "is required"})
		}

		if p.Legacy != "" && p.Legacy == p.Wrapper {
			errs = append(errs, ValidationError{Field: field, Message: "legacy and wrapper are the same type"})
		}

		if p.Name != "" {
			if names[p.Name] {
				errs = append(errs, ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate pair name %q", p.Name)})
			}

			names[p.Name] = true
		}
	}

	errs = append(errs, c.validateSearch()...)
	errs = append(errs, c.validateOutput()...)
	errs = append(errs, c.validateLogging()...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (c *Config) validateSearch() ValidationErrors {
	var errs ValidationErrors

	if c.Search.MaxProbe <= 0 {
		errs = append(errs, ValidationError{Field: "search.max_probe", Message: "must be positive"})
	}

	if _, err := oracle.New(oracle.Kind(c.Search.Oracle)); err != nil {
		errs = append(errs, ValidationError{Field: "search.oracle", Message: err.Error()})
	}

	if _, err := search.ByName(c.Search.Engine); err != nil {
		errs = append(errs, ValidationError{Field: "search.engine", Message: err.Error()})
	}

	if c.Search.Workers < 0 {
		errs = append(errs, ValidationError{Field: "search.workers", Message: "must not be negative"})
	}

	return errs
}

func (c *Config) validateOutput() ValidationErrors {
	var errs ValidationErrors

	if !isIdentifier(c.Output.Package) {
		errs = append(errs, ValidationError{Field: "output.package", Message: fmt.Sprintf("%q is not a valid package name", c.Output.Package)})
	}

	if c.Output.Dir == "" {
		errs = append(errs, ValidationError{Field: "output.dir", Message: "is required"})
	}

	if !strings.HasSuffix(c.Output.File, ".go") {
		errs = append(errs, ValidationError{Field: "output.file", Message: "must end in .go"})
	}

	return errs
}

func (c *Config) validateLogging() ValidationErrors {
	var errs ValidationErrors

	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "":
	default:
		errs = append(errs, ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}

	switch c.Logging.Format {
	case "json", "text", "":
	default:
		errs = append(errs, ValidationError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)})
	}

	return errs
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
