package domain

import (
	"fmt"
	"strings"
)

// ValidationKind — вид ошибки валидации
type ValidationKind string

const (
	KindMissingFields        ValidationKind = "missing_fields"
	KindInvalidTimestamp     ValidationKind = "invalid_timestamp"
	KindMustBePositiveNumber ValidationKind = "must_be_positive_number"
	KindInvalidMeterID       ValidationKind = "invalid_meter_id"
	KindInvalidType          ValidationKind = "invalid_type"
	KindInvalidID            ValidationKind = "invalid_id"
	KindInvalidLimit         ValidationKind = "invalid_limit"
)

// ValidationError — ошибка клиентского ввода, на HTTP границе маппится в 400
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func ErrMissingFields(fields []string) *ValidationError {
	return &ValidationError{
		Kind:    KindMissingFields,
		Message: fmt.Sprintf("Missing required fields: %s", strings.Join(fields, ", ")),
	}
}

func ErrInvalidTimestamp(param string) *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidTimestamp,
		Message: fmt.Sprintf("Invalid timestamp format on `%s`. Expected ISO 8601 format.", param),
	}
}

func ErrMustBePositiveNumber(param string) *ValidationError {
	return &ValidationError{
		Kind:    KindMustBePositiveNumber,
		Message: fmt.Sprintf("`%s` must be positive number", param),
	}
}

func ErrInvalidMeterID() *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidMeterID,
		Message: "Invalid meterID, must be a string and may not contain whitespaces.",
	}
}

func ErrInvalidType() *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidType,
		Message: `Type must be either "production" or "consumption"`,
	}
}

func ErrInvalidID() *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidID,
		Message: "Invalid measurement ID format. Expected UUID format.",
	}
}

func ErrInvalidLimit() *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidLimit,
		Message: "Limit must be positive number between 1 - 100.",
	}
}

// StorageOp — операция хранилища, на которой произошёл сбой
type StorageOp string

const (
	OpInsert StorageOp = "insert"
	OpSelect StorageOp = "select"
)

// StorageError — сбой хранилища, на HTTP границе маппится в 500.
// Оборачивает исходную ошибку драйвера, наружу отдаёт общий текст.
type StorageError struct {
	Op  StorageOp
	Err error
}

func (e *StorageError) Error() string {
	if e.Op == OpInsert {
		return "Could not insert to database."
	}
	return "Could not retrieve from database."
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op StorageOp, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
