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

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrIllegalTransition   = NewDomainError("ILLEGAL_TRANSITION", "Target state is not reachable from the current state")
	ErrIncompleteMetadata  = NewDomainError("INCOMPLETE_METADATA", "Required metadata for the target state is missing")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrPaymentNotSettled   = NewDomainError("PAYMENT_NOT_SETTLED", "Order payment has not been settled")
	ErrQuantityExceeded    = NewDomainError("QUANTITY_EXCEEDED", "Return quantity exceeds the returnable balance")
	ErrDuplicateCreditNote = NewDomainError("DUPLICATE_CREDIT_NOTE", "A credit note already exists for this return")
)
