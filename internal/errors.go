package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound           ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized       ErrorType = "UNAUTHORIZED"
	ErrorTypeConflict           ErrorType = "CONFLICT"
	ErrorTypeNoEligibleProjects ErrorType = "NO_ELIGIBLE_PROJECTS"
	ErrorTypePartialWrite       ErrorType = "PARTIAL_WRITE"
	ErrorTypeInternal           ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidBudget    ErrorCode = "INVALID_BUDGET"
	ErrCodeInvalidCategory  ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidType      ErrorCode = "INVALID_ENTRY_TYPE"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_PROJECT_STATUS"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidOrigin    ErrorCode = "INVALID_ENTRY_ORIGIN"
	ErrCodeSameProject      ErrorCode = "SAME_PROJECT_TRANSFER"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidUnit      ErrorCode = "INVALID_UNIT"
	ErrCodeInvalidDiscount  ErrorCode = "INVALID_DISCOUNT"

	ErrCodeProjectNotFound       ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeSourceProjectNotFound ErrorCode = "SOURCE_PROJECT_NOT_FOUND"
	ErrCodeEntryNotFound         ErrorCode = "ENTRY_NOT_FOUND"
	ErrCodeCategoryNotFound      ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodePaymentBillNotFound   ErrorCode = "PAYMENT_BILL_NOT_FOUND"
	ErrCodeEstimateNotFound      ErrorCode = "ESTIMATE_NOT_FOUND"
	ErrCodeUserNotFound          ErrorCode = "USER_NOT_FOUND"

	ErrCodeDuplicateCategory ErrorCode = "DUPLICATE_CATEGORY"
	ErrCodeDuplicateUser     ErrorCode = "DUPLICATE_USER"

	ErrCodeNoEligibleProjects  ErrorCode = "NO_IN_PROGRESS_PROJECTS"
	ErrCodePartialTransfer     ErrorCode = "PARTIAL_TRANSFER"
	ErrCodePartialDistribution ErrorCode = "PARTIAL_DISTRIBUTION"
	ErrCodeTransferPair        ErrorCode = "TRANSFER_PAIR_CONFLICT"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Type and Code so package-level sentinels work with errors.Is
// even after WithCause/WithDetails copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy; sentinels stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewNoEligibleProjectsError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNoEligibleProjects,
		Code:       ErrCodeNoEligibleProjects,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewPartialWriteError reports a multi-write operation that stopped part way.
// Details must say which writes landed.
func NewPartialWriteError(message string, code ErrorCode, details interface{}, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypePartialWrite,
		Code:       code,
		Message:    message,
		Details:    details,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrProjectNotFound       = NewNotFoundError("Project not found", ErrCodeProjectNotFound)
	ErrSourceProjectNotFound = NewNotFoundError("Source project not found", ErrCodeSourceProjectNotFound)
	ErrEntryNotFound         = NewNotFoundError("Entry not found", ErrCodeEntryNotFound)
	ErrPaymentBillNotFound   = NewNotFoundError("Payment bill not found", ErrCodePaymentBillNotFound)
	ErrEstimateNotFound      = NewNotFoundError("Estimate not found", ErrCodeEstimateNotFound)
	ErrUserNotFound          = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrDuplicateCategory     = NewConflictError("Category already exists", ErrCodeDuplicateCategory)
	ErrDuplicateUser         = NewConflictError("User already exists", ErrCodeDuplicateUser)
	ErrTransferPairUnlinked  = NewConflictError("Transfer entry has no linked counterpart and cannot be changed alone", ErrCodeTransferPair)
	ErrNoEligibleProjects    = NewNoEligibleProjectsError("No projects in progress to distribute the expense across")

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.GetDetailedMessage(),
		Details: e.Details,
	})
}
