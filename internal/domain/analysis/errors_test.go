package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryErrorMessages(t *testing.T) {
	httpErr := &DeliveryError{Outcome: DispatchOutcome{Kind: OutcomeHTTPError, StatusCode: 500, Body: "boom"}}
	assert.Contains(t, httpErr.Error(), "status 500")
	assert.Contains(t, httpErr.Error(), "boom")

	timeoutErr := &DeliveryError{Outcome: DispatchOutcome{Kind: OutcomeTimeout}}
	assert.Contains(t, timeoutErr.Error(), "saved for manual processing")

	cause := errors.New("connection refused")
	netErr := &DeliveryError{Outcome: DispatchOutcome{Kind: OutcomeNetworkError, Cause: cause}}
	assert.Contains(t, netErr.Error(), "connection refused")
	assert.ErrorIs(t, netErr, cause)
}

func TestOutcomeClassification(t *testing.T) {
	assert.True(t, DispatchOutcome{Kind: OutcomeSuccess}.Delivered())
	assert.False(t, DispatchOutcome{Kind: OutcomeHTTPError}.Delivered())

	// hanya network error yang aman diretry
	assert.True(t, DispatchOutcome{Kind: OutcomeNetworkError}.Retryable())
	assert.False(t, DispatchOutcome{Kind: OutcomeHTTPError}.Retryable())
	assert.False(t, DispatchOutcome{Kind: OutcomeTimeout}.Retryable())
	assert.False(t, DispatchOutcome{Kind: OutcomeSuccess}.Retryable())
}
