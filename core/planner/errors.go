package planner

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an input the engine cannot plan against,
// such as an empty technician roster or a fully blacked-out week. It is
// the only error kind surfaced to callers.
type ConfigurationError struct {
	Reason string
}

func (e ConfigurationError) Error() string {
	return "planner configuration: " + e.Reason
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce ConfigurationError
	return errors.As(err, &ce)
}

// ErrOracleUnavailable marks transport-level oracle failures. It is
// absorbed by the manager, never surfaced to callers.
var ErrOracleUnavailable = errors.New("suggestion oracle unavailable")

// OracleValidationError reports an oracle candidate that failed
// structural validation against the snapshot. Absorbed like
// ErrOracleUnavailable.
type OracleValidationError struct {
	Reason string
}

func (e OracleValidationError) Error() string {
	return fmt.Sprintf("oracle validation: %s", e.Reason)
}
