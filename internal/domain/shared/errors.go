package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError carrying the same code, so that
// errors.Is(err, shared.ErrInvalidFormat) matches any INVALID_FORMAT error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes of the SEPA rule taxonomy
const (
	CodeNullArgument        = "NULL_ARGUMENT"
	CodeInvalidFormat       = "INVALID_FORMAT"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeDuplicateID         = "DUPLICATE_ID"
	CodeDuplicateEndToEndID = "DUPLICATE_END_TO_END_ID"
	CodeMissingField        = "MISSING_FIELD"
	CodeUnsupportedSchema   = "UNSUPPORTED_SCHEMA"
	CodeUnknownCode         = "UNKNOWN_CODE"
)

// Common domain errors, usable as errors.Is targets
var (
	ErrNullArgument        = NewDomainError(CodeNullArgument, "Required argument is missing")
	ErrInvalidFormat       = NewDomainError(CodeInvalidFormat, "Value has an invalid format")
	ErrInvalidAmount       = NewDomainError(CodeInvalidAmount, "Amount is invalid")
	ErrDuplicateID         = NewDomainError(CodeDuplicateID, "Transaction id must be unique in a transfer")
	ErrDuplicateEndToEndID = NewDomainError(CodeDuplicateEndToEndID, "End to end id must be unique in a transfer")
	ErrMissingField        = NewDomainError(CodeMissingField, "Mandatory field is missing")
	ErrUnsupportedSchema   = NewDomainError(CodeUnsupportedSchema, "Schema is not supported")
	ErrUnknownCode         = NewDomainError(CodeUnknownCode, "Unknown code")
)

// InvalidFormat builds an INVALID_FORMAT error with a field specific message
func InvalidFormat(message string) *DomainError {
	return NewDomainError(CodeInvalidFormat, message)
}

// MissingField builds a MISSING_FIELD error with a field specific message
func MissingField(message string) *DomainError {
	return NewDomainError(CodeMissingField, message)
}

// UnknownCode builds an UNKNOWN_CODE error with a field specific message
func UnknownCode(message string) *DomainError {
	return NewDomainError(CodeUnknownCode, message)
}
