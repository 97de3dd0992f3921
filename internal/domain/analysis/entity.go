package analysis

import (
	"time"
)

// StartupID identifies the startup under analysis
type StartupID string

// ProcessingStatus enum
type ProcessingStatus string

const (
	StatusPending       ProcessingStatus = "pending"
	StatusProcessing    ProcessingStatus = "processing"
	StatusCompleted     ProcessingStatus = "completed"
	StatusFailedWebhook ProcessingStatus = "failed_webhook"
)

// UnknownContentType dipakai kalau file tidak punya content type
const UnknownContentType = "unknown"

// ResolvedFile hasil resolve satu file ref dari storage
type ResolvedFile struct {
	Path         string
	RetrievalURL string
	Size         int64
	ContentType  string
}

// PayloadFile entry dalam DispatchPayload.Files
type PayloadFile struct {
	Path         string `json:"path"`
	DisplayName  string `json:"display_name"`
	RetrievalURL string `json:"retrieval_url"`
	Size         int64  `json:"size,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
}

// PayloadMetadata value object
// Invariant: TotalFiles == len(Files); ContentTypes deduplicated, sorted
type PayloadMetadata struct {
	TotalFiles   int       `json:"total_files"`
	ContentTypes []string  `json:"content_types"`
	DispatchedAt time.Time `json:"dispatched_at"`
}

// DispatchPayload body yang dikirim ke analysis engine
type DispatchPayload struct {
	StartupID   string          `json:"startup_id"`
	StartupName string          `json:"startup_name"`
	Files       []PayloadFile   `json:"files"`
	CallbackURL string          `json:"callback_url,omitempty"`
	Metadata    PayloadMetadata `json:"metadata"`
}

// Aggregate: AnalysisStatus, satu row per startup (key: StartupID)
type AnalysisStatus struct {
	StartupID           StartupID        `json:"startup_id"`
	TenantID            string           `json:"tenant_id"`
	StartupName         string           `json:"startup_name"`
	ProcessingStatus    ProcessingStatus `json:"processing_status"`
	WebhookTriggeredAt  time.Time        `json:"webhook_triggered_at"`
	AnalysisCompletedAt *time.Time       `json:"analysis_completed_at,omitempty"`
}
