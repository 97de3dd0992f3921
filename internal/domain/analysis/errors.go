package analysis

import (
	"errors"
	"fmt"
)

// ErrNoFiles indicates the caller supplied zero file references.
var ErrNoFiles = errors.New("no files supplied for analysis")

// ConstructionError: input refs ada tapi tidak ada satupun yang bisa diresolve
type ConstructionError struct {
	Supplied int
	Err      error
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no usable files: resolving %d supplied files failed: %v", e.Supplied, e.Err)
	}
	return fmt.Sprintf("no usable files: none of %d supplied files could be resolved", e.Supplied)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// DeliveryError: transport gagal mengirim dalam batas policy.
// Pesan dibedakan per kind supaya UI bisa menampilkan teks yang tepat.
type DeliveryError struct {
	Outcome DispatchOutcome
}

func (e *DeliveryError) Error() string {
	switch e.Outcome.Kind {
	case OutcomeHTTPError:
		return fmt.Sprintf("analysis engine rejected request: status %d: %s", e.Outcome.StatusCode, e.Outcome.Body)
	case OutcomeTimeout:
		return "webhook request timed out; request saved for manual processing"
	case OutcomeNetworkError:
		return fmt.Sprintf("analysis engine unreachable: %v; request saved for manual processing", e.Outcome.Cause)
	default:
		return fmt.Sprintf("webhook delivery failed: %s", e.Outcome.Kind)
	}
}

func (e *DeliveryError) Unwrap() error { return e.Outcome.Cause }
