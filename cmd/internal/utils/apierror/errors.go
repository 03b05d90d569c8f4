package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError    = NewSimple(400, "Malformed request body")
	InternalServerError   = NewSimple(500, "Internal server error")
	InvalidMediaTypeError = NewSimple(415, "Unsupported media type")

	NotFoundError     = NewSimple(404, "Resource not found")
	CompanyNotFound   = NewSimple(404, "No company found for this access code")
	EmployeeNotFound  = NewSimple(404, "Employee not found")
	InvalidCNPJError  = NewSimple(400, "The provided CNPJ is invalid")
	InvalidPhotoError = NewSimple(400, "The photo payload is not a valid image")
	LookupBusyError   = NewSimple(503, "CNPJ lookup is busy, try again shortly")

	/*
	 * Used for authentications
	 */
	UnauthorizedError       = NewSimple(401, "Authentication required")
	InvalidAuthTokenError   = NewSimple(401, "Invalid or expired session token")
	CredentialsMismatch     = NewSimple(401, "Credentials mismatch")
	InvalidTotemCodeError   = NewSimple(401, "Totem code is invalid or expired")
	MissingAccessError      = NewSimple(403, "Missing access")
	InactiveEmployeeError   = NewSimple(403, "This employee is inactive")
	AdminEmailTakenError    = NewSimple(409, "Email already registered for another company")
	IDPInvalidPasswordError = NewSimple(400, "Provided password does not meet requirements")
	IDPUnavailableError     = NewSimple(502, "Identity provider unavailable")

	/*
	 * Domain rules
	 */
	BadgeTakenError            = NewSimple(409, "Badge number already in use in this company")
	RequestAlreadyDecidedError = NewSimple(409, "Request was already decided")
	HolidayExistsError         = NewSimple(409, "A holiday already exists on this date")
	InvalidHolidayDateError    = NewSimple(400, "Holiday date must be YYYY-MM-DD or DD/MM/YYYY")
	ForbiddenViewError         = NewSimple(403, "This view is not available for your role")
	UnknownViewError           = NewSimple(400, "Unknown view")
	PunchInProgressError       = NewSimple(409, "A punch is already being submitted")
)

// FromValidationError maps validator failures to a per-field error body.
// Anything else means the payload could not be validated at all.
func FromValidationError(err error) ErrorResponse {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return MalformedBodyError
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())
		case "hasdigit":
			problems[field] = append(problems[field], "Value must have at least one number")
		case "hasletter":
			problems[field] = append(problems[field], "Value must have at least one letter")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "badge":
			problems[field] = append(problems[field], "Badge must contain only letters, digits or dashes")
		case "holidaydate":
			problems[field] = append(problems[field], "Date must be YYYY-MM-DD or DD/MM/YYYY")
		case "cnpj":
			problems[field] = append(problems[field], "Value must be a valid CNPJ")
		case "latitude", "longitude":
			problems[field] = append(problems[field], "Value must be a valid coordinate")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewMissingParamError(name string) *APIError {
	return NewSimple(http.StatusBadRequest, "Missing required parameter '%s'", name)
}

func NewForbiddenError(msg string) *APIError {
	return NewSimple(http.StatusForbidden, "Forbidden: %s", msg)
}

func NewPermissionError(perm int64) *APIError {
	return NewSimple(http.StatusForbidden, "Missing permissions: %d", perm)
}
