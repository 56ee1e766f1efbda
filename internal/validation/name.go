package validation

import (
	"errors"
	"strings"
)

const maxNameLength = 100

// ValidateName validates profile display names
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len([]rune(trimmed)) > maxNameLength {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateGoalName validates savings goal names
func ValidateGoalName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("goal name is required")
	}

	if len([]rune(trimmed)) > maxNameLength {
		return errors.New("goal name is too long (max 100 characters)")
	}

	return nil
}
