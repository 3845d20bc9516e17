package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigParseError reports a malformed or unparseable layout payload.
type ConfigParseError struct {
	Source string
	Err    error
}

func (e *ConfigParseError) Error() string {
	if e == nil {
		return "layout: parse config"
	}
	if strings.TrimSpace(e.Source) != "" {
		return fmt.Sprintf("layout: parse config %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("layout: parse config: %v", e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// MissingLayoutError reports a payload that carries no layout at all.
type MissingLayoutError struct {
	Reason string
}

func (e *MissingLayoutError) Error() string {
	if e == nil || strings.TrimSpace(e.Reason) == "" {
		return "layout: missing layout"
	}
	return "layout: missing layout: " + e.Reason
}

// IsConfigError reports whether err belongs to the configuration taxonomy
// (parse failure or missing layout).
func IsConfigError(err error) bool {
	var parseErr *ConfigParseError
	var missingErr *MissingLayoutError
	return errors.As(err, &parseErr) || errors.As(err, &missingErr)
}
