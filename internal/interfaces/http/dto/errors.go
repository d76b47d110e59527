package dto

import "net/http"

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
)

// Return business rule error codes. These mirror the codes raised by the
// application layer so the status mapping stays in one place.
const (
	// ErrCodeInvalidQuantity is used when a return quantity is out of range
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
	// ErrCodeInvalidPrice is used when a return price exceeds the returnable price
	ErrCodeInvalidPrice = "INVALID_PRICE"
	// ErrCodeInvalidStatusChange is used for status graph violations
	ErrCodeInvalidStatusChange = "INVALID_STATUS_CHANGE"
	// ErrCodeUnresolvedTypeMap is used when no return item type mapping exists
	ErrCodeUnresolvedTypeMap = "UNRESOLVED_TYPE_MAP"
	// ErrCodePaymentMethodRequired is used when a replacement return has no payment method
	ErrCodePaymentMethodRequired = "PAYMENT_METHOD_REQUIRED"
	// ErrCodeAlreadyFullyReturned is used when an order line has no returnable quantity left
	ErrCodeAlreadyFullyReturned = "ALREADY_FULLY_RETURNED"
	// ErrCodeReturnTotalExceeded is used when a return total exceeds the available amount
	ErrCodeReturnTotalExceeded = "RETURN_TOTAL_EXCEEDED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidQuantity:       http.StatusUnprocessableEntity,
	ErrCodeInvalidPrice:          http.StatusUnprocessableEntity,
	ErrCodeInvalidStatusChange:   http.StatusUnprocessableEntity,
	ErrCodeUnresolvedTypeMap:     http.StatusUnprocessableEntity,
	ErrCodePaymentMethodRequired: http.StatusUnprocessableEntity,
	ErrCodeAlreadyFullyReturned:  http.StatusUnprocessableEntity,
	ErrCodeReturnTotalExceeded:   http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
