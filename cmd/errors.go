package cmd

import (
	"fmt"

	errs "github.com/khanhnv2901/shredder/internal/shared/errors"
)

// ConfigError reports a single invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", errs.ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return errs.ErrInvalidConfig
}
