// Package service implements the command and query surface of the org
// registry. Commands validate input, guard against the read model where
// referential rules apply, and persist aggregate events through the
// repository.
package service

import (
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/orgledger/orgledger/internal/platform/errors"
)

// validateID checks a command identifier: required and UUID-shaped.
func validateID(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.WithMetadata(apperrors.CodeIDEmpty, field+" is required", map[string]string{"field": field})
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", apperrors.WithMetadata(apperrors.CodeIDInvalid, field+" must be a valid UUID", map[string]string{"field": field, "value": value})
	}
	return value, nil
}

// validateName checks a required display name.
func validateName(value string, code apperrors.Code, message string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.New(code, message)
	}
	return value, nil
}
