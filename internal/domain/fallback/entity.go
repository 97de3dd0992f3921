package fallback

import "time"

// Record represents a dispatch that could not be delivered, persisted for
// manual replay. Rows are insert-only; an external replay process consumes
// and removes them.
type Record struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	StartupID   string    `json:"startup_id"`
	StartupName string    `json:"startup_name"`
	PayloadJSON string    `json:"payload_json,omitempty"` // raw JSON string
	Reason      string    `json:"reason,omitempty"`       // delivery outcome summary
	SavedAt     time.Time `json:"saved_at"`
}
