package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/andikahmadr/diligence-api/internal/domain/fallback"
)

type FallbackRepository struct {
	db *sql.DB
}

func NewFallbackRepository(db *sql.DB) *FallbackRepository { return &FallbackRepository{db: db} }

// Save insert-only; record tidak pernah dihapus otomatis
func (r *FallbackRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO analysis_fallbacks
  (id, tenant_id, startup_id, startup_name, payload_json, reason, saved_at)
VALUES (?,?,?,?,?,?,?)
`
	tenant := stringOrDash(rec.TenantID)
	startup := stringOrDash(rec.StartupID)
	name := stringOrDash(rec.StartupName)
	payload := rec.PayloadJSON
	if strings.TrimSpace(payload) == "" {
		payload = "{}"
	} else {
		// ensure valid json; if invalid, wrap as string field
		var js any
		if json.Unmarshal([]byte(payload), &js) != nil {
			b, _ := json.Marshal(map[string]string{"raw": payload})
			payload = string(b)
		}
	}
	saved := rec.SavedAt
	if saved.IsZero() {
		saved = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q, rec.ID, tenant, startup, name, payload, rec.Reason, saved)
	return err
}

// Latest listing untuk operator replay
func (r *FallbackRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, startup_id, startup_name, payload_json, reason, saved_at
FROM analysis_fallbacks
WHERE tenant_id = ?
ORDER BY saved_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.ID, &rec.TenantID, &rec.StartupID, &rec.StartupName, &rec.PayloadJSON, &rec.Reason, &rec.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
