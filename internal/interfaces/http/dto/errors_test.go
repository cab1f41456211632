package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name       string
		domainCode string
		want       string
	}{
		{"not found", "NOT_FOUND", ErrCodeNotFound},
		{"invalid state", "INVALID_STATE", ErrCodeInvalidState},
		{"illegal transition", "ILLEGAL_TRANSITION", ErrCodeIllegalTransition},
		{"incomplete metadata", "INCOMPLETE_METADATA", ErrCodeIncompleteMetadata},
		{"insufficient stock", "INSUFFICIENT_STOCK", ErrCodeInsufficientStock},
		{"payment not settled", "PAYMENT_NOT_SETTLED", ErrCodePaymentNotSettled},
		{"quantity exceeded", "QUANTITY_EXCEEDED", ErrCodeQuantityExceeded},
		{"duplicate credit note", "DUPLICATE_CREDIT_NOTE", ErrCodeDuplicateCreditNote},
		{"concurrency conflict", "CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"already an API code", ErrCodeNotFound, ErrCodeNotFound},
		{"unmapped falls back to business rule", "NO_ITEMS", ErrCodeBusinessRule},
		{"empty falls back to business rule", "", ErrCodeBusinessRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeErrorCode(tt.domainCode))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found is 404", ErrCodeNotFound, http.StatusNotFound},
		{"bad request is 400", ErrCodeBadRequest, http.StatusBadRequest},
		{"already exists is 409", ErrCodeAlreadyExists, http.StatusConflict},
		{"concurrency conflict is 409", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"duplicate credit note is 409", ErrCodeDuplicateCreditNote, http.StatusConflict},
		{"illegal transition is 422", ErrCodeIllegalTransition, http.StatusUnprocessableEntity},
		{"insufficient stock is 422", ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{"payment not settled is 422", ErrCodePaymentNotSettled, http.StatusUnprocessableEntity},
		{"business rule is 422", ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{"internal is 500", ErrCodeInternal, http.StatusInternalServerError},
		{"unknown code is 500", "ERR_SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}
