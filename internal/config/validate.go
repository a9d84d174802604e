package config

import (
	stderrors "errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mrz1836/liftoff/internal/errors"
)

// Polling bounds.
const (
	minPollInterval = 1 * time.Second
	maxPollInterval = 10 * time.Minute
	maxNotaryWait   = 24 * time.Hour
)

//nolint:gochecknoglobals // validator caches struct metadata; one instance is intended
var validate = newValidator()

// newValidator reports fields by their yaml names so errors read like the
// config file.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - struct tags (backend and format names, required fields, multiplier range)
//   - notary poll interval must be between 1 second and 10 minutes
//   - notary max poll interval must not be below the poll interval
//   - notary timeout must be positive and at most 24 hours
//   - tool and build timeouts must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validate.Struct(cfg); err != nil {
		return translate(err)
	}

	if err := validateNotaryConfig(&cfg.Notary); err != nil {
		return err
	}

	if cfg.Timeouts.Build <= 0 || cfg.Timeouts.Tool <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"timeouts.build and timeouts.tool must be positive, got %s and %s",
			cfg.Timeouts.Build, cfg.Timeouts.Tool)
	}

	return nil
}

// validateNotaryConfig checks the polling ranges.
func validateNotaryConfig(cfg *NotaryConfig) error {
	if cfg.PollInterval < minPollInterval || cfg.PollInterval > maxPollInterval {
		return errors.Wrapf(errors.ErrConfigInvalidNotary,
			"notary.poll_interval must be between %s and %s, got %s",
			minPollInterval, maxPollInterval, cfg.PollInterval)
	}

	if cfg.MaxPollInterval < cfg.PollInterval {
		return errors.Wrapf(errors.ErrConfigInvalidNotary,
			"notary.max_poll_interval must be at least notary.poll_interval (%s), got %s",
			cfg.PollInterval, cfg.MaxPollInterval)
	}

	if cfg.Timeout <= 0 || cfg.Timeout > maxNotaryWait {
		return errors.Wrapf(errors.ErrConfigInvalidNotary,
			"notary.timeout must be positive and at most %s, got %s", maxNotaryWait, cfg.Timeout)
	}

	return nil
}

// translate turns the first validator failure into an ErrConfigInvalid.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrConfigInvalid, err.Error())
	}

	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	target := errors.ErrConfigInvalid
	if strings.HasPrefix(field, "notary.") {
		target = errors.ErrConfigInvalidNotary
	}

	if fe.Param() != "" {
		return errors.Wrapf(target, "%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
	return errors.Wrapf(target, "%s failed %s (got %v)", field, fe.Tag(), fe.Value())
}
