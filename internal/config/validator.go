package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dori/donelist/internal/logging"
	"github.com/dori/donelist/internal/model"
	"github.com/dori/donelist/internal/ui/theme"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "tui.filter")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.DataDir) == "" {
		errors = append(errors, ValidationError{
			Field:   "data_dir",
			Value:   c.DataDir,
			Message: "must not be empty",
		})
	}

	if _, err := model.ParseFilter(c.TUI.Filter); err != nil {
		errors = append(errors, ValidationError{
			Field:   "tui.filter",
			Value:   c.TUI.Filter,
			Message: "must be one of all, pending, completed",
		})
	}

	if !slices.Contains(theme.Names(), c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of %s", strings.Join(theme.Names(), ", ")),
		})
	}

	if !logging.IsValidLevel(c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of debug, info, warn, error",
		})
	}

	return errors
}
