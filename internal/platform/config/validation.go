package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf key, so an error names the
// same path the YAML profile uses.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	v.RegisterStructValidation(validateRetry, RetryConfig{})
	v.RegisterStructValidation(validateEndpoint, ServiceEndpointConfig{})

	return v
}

// Validate validates the configuration and returns an error if invalid.
// Validation fails fast: no command runs with invalid config.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// validateRetry keeps the backoff ceiling at or above its first step.
func validateRetry(sl validator.StructLevel) {
	retry, _ := sl.Current().Interface().(RetryConfig)

	if retry.MaxInterval > 0 && retry.MaxInterval < retry.InitialInterval {
		sl.ReportError(retry.MaxInterval, "max_interval", "MaxInterval", "ltinitial", retry.InitialInterval.String())
	}
}

// validateEndpoint requires a plain http(s) base URL; the quote API is a
// json-server collection.
func validateEndpoint(sl validator.StructLevel) {
	endpoint, _ := sl.Current().Interface().(ServiceEndpointConfig)
	if endpoint.BaseURL == "" {
		return
	}

	u, err := url.Parse(endpoint.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		sl.ReportError(endpoint.BaseURL, "base_url", "BaseURL", "httpscheme", "")
	}
}

func formatValidationErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, formatFieldError(e))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func formatFieldError(e validator.FieldError) string {
	key := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", key)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", key)
	case "httpscheme":
		return fmt.Sprintf("%s must be an http or https URL", key)
	case "datetime":
		return fmt.Sprintf("%s must match the layout %s", key, e.Param())
	case "ltinitial":
		return fmt.Sprintf("%s must not be shorter than initial_interval (%s)", key, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", key, e.Tag())
	}
}

// formatFieldPath drops the root type from "Config.daemon.ops.port".
func formatFieldPath(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return key
}
