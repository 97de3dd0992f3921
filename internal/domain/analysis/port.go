package analysis

import (
	"context"
	"io"
	"time"
)

// StatusRepository port (persistence untuk analysis_status)
type StatusRepository interface {
	// MarkProcessing upserts the row for startupID, overwriting any previous
	// dispatch (last write wins) and clearing the completion timestamp.
	MarkProcessing(ctx context.Context, tenant string, id StartupID, name string, triggeredAt time.Time) error
	Get(ctx context.Context, id StartupID) (*AnalysisStatus, error)
	// Complete stores a terminal state written by the callback path.
	Complete(ctx context.Context, id StartupID, status ProcessingStatus, completedAt time.Time) error
}

// FileResolver port (interface untuk resolve file refs jadi retrieval URL).
// Implementations preserve input order and omit unresolvable entries.
type FileResolver interface {
	Resolve(ctx context.Context, refs []string) ([]ResolvedFile, error)
}

// WebhookSender port (outbound transport ke analysis engine).
// Ordinary network/HTTP failures are encoded in the outcome; the error
// return is reserved for programmer errors such as payload serialization.
type WebhookSender interface {
	Send(ctx context.Context, p *DispatchPayload) (DispatchOutcome, error)
}

// FileStore port (penyimpanan dokumen)
type FileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}
