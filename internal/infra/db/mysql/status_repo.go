package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/andikahmadr/diligence-api/internal/domain/analysis"
)

type StatusRepository struct {
	db *sql.DB
}

func NewStatusRepository(db *sql.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// MarkProcessing upsert row per startup; re-dispatch menimpa row lama
// (last write wins) dan reset analysis_completed_at.
func (r *StatusRepository) MarkProcessing(ctx context.Context, tenant string, id domain.StartupID, name string, triggeredAt time.Time) error {
	const q = `
INSERT INTO analysis_status
 (startup_id, tenant_id, startup_name, processing_status, webhook_triggered_at, analysis_completed_at)
VALUES (?,?,?,?,?,NULL)
ON DUPLICATE KEY UPDATE
 tenant_id=VALUES(tenant_id),
 startup_name=VALUES(startup_name),
 processing_status=VALUES(processing_status),
 webhook_triggered_at=VALUES(webhook_triggered_at),
 analysis_completed_at=NULL;
`
	tenant = stringOrDash(tenant)
	name = stringOrDash(name)
	if triggeredAt.IsZero() {
		triggeredAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q, id, tenant, name, domain.StatusProcessing, triggeredAt)
	return err
}

// Get by startup id
func (r *StatusRepository) Get(ctx context.Context, id domain.StartupID) (*domain.AnalysisStatus, error) {
	const q = `
SELECT startup_id, tenant_id, startup_name, processing_status, webhook_triggered_at, analysis_completed_at
FROM analysis_status
WHERE startup_id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, id)

	var s domain.AnalysisStatus
	var completed sql.NullTime
	if err := row.Scan(
		&s.StartupID, &s.TenantID, &s.StartupName, &s.ProcessingStatus, &s.WebhookTriggeredAt, &completed,
	); err != nil {
		return nil, err
	}
	if completed.Valid {
		t := completed.Time
		s.AnalysisCompletedAt = &t
	}
	return &s, nil
}

// Complete simpan terminal state dari callback path
func (r *StatusRepository) Complete(ctx context.Context, id domain.StartupID, status domain.ProcessingStatus, completedAt time.Time) error {
	const q = `
UPDATE analysis_status
SET processing_status = ?,
    analysis_completed_at = ?
WHERE startup_id = ?;
`
	res, err := r.db.ExecContext(ctx, q, status, completedAt, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
