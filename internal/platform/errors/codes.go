// Package errors provides structured, code-based error handling.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// Identifier errors
	CodeIDEmpty   Code = "ID_EMPTY"
	CodeIDInvalid Code = "ID_INVALID"

	// Aggregate errors
	CodeIDMismatch       Code = "ID_MISMATCH"
	CodeEmptyAfterReplay Code = "EMPTY_AFTER_REPLAY"

	// Person errors
	CodePersonNameEmpty Code = "PERSON_NAME_EMPTY"

	// Organization unit errors
	CodeUnitNameEmpty     Code = "UNIT_NAME_EMPTY"
	CodeUnitParentMissing Code = "UNIT_PARENT_MISSING"
	CodeUnitReferenced    Code = "UNIT_REFERENCED_BY_COMMISSION"

	// Admin commission errors
	CodeCommissionNameEmpty   Code = "COMMISSION_NAME_EMPTY"
	CodeCommissionUnitEmpty   Code = "COMMISSION_UNIT_EMPTY"
	CodeCommissionUnitMissing Code = "COMMISSION_UNIT_MISSING"

	// Employment errors
	CodeEmploymentRoleEmpty Code = "EMPLOYMENT_ROLE_EMPTY"
	CodeEmploymentMissing   Code = "EMPLOYMENT_MISSING"
	CodeEmploymentExists    Code = "EMPLOYMENT_EXISTS"

	// Stream/storage errors
	CodeNotFound        Code = "NOT_FOUND"
	CodeStreamExists    Code = "STREAM_EXISTS"
	CodeVersionConflict Code = "VERSION_CONFLICT"

	// Projection errors
	CodeProjectionFailure Code = "PROJECTION_FAILURE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeIDEmpty,
		CodeIDInvalid,
		CodePersonNameEmpty,
		CodeUnitNameEmpty,
		CodeCommissionNameEmpty,
		CodeCommissionUnitEmpty,
		CodeEmploymentRoleEmpty:
		return http.StatusBadRequest

	// Not found - referenced aggregate or read entity is missing
	case CodeNotFound,
		CodeUnitParentMissing,
		CodeCommissionUnitMissing,
		CodeEmploymentMissing:
		return http.StatusNotFound

	// Conflict - invariant violations and concurrent-writer races
	case CodeIDMismatch,
		CodeEmptyAfterReplay,
		CodeUnitReferenced,
		CodeEmploymentExists,
		CodeStreamExists,
		CodeVersionConflict:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
