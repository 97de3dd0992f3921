package analysis

// OutcomeKind enum
type OutcomeKind string

const (
	OutcomeSuccess      OutcomeKind = "success"
	OutcomeHTTPError    OutcomeKind = "http_error"
	OutcomeNetworkError OutcomeKind = "network_error"
	OutcomeTimeout      OutcomeKind = "timeout"
)

// DispatchOutcome hasil satu kali pengiriman lewat transport.
// StatusCode/Body hanya terisi untuk success/http_error, Cause untuk network_error.
type DispatchOutcome struct {
	Kind       OutcomeKind
	StatusCode int
	Body       string
	Cause      error
}

// Delivered reports whether the remote engine acknowledged the request.
func (o DispatchOutcome) Delivered() bool {
	return o.Kind == OutcomeSuccess
}

// Retryable reports whether the transport may retry this outcome.
// Only network-level failures are safe to retry blindly; an HTTP response
// means the engine already received the request, and a timeout may mean
// the job is in flight.
func (o DispatchOutcome) Retryable() bool {
	return o.Kind == OutcomeNetworkError
}
