package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/andikahmadr/diligence-api/internal/application"
	domain "github.com/andikahmadr/diligence-api/internal/domain/analysis"
	fb "github.com/andikahmadr/diligence-api/internal/domain/fallback"
)

// Service implements use-cases untuk analysis dispatch
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Resolver  domain.FileResolver
	Sender    domain.WebhookSender
	Statuses  domain.StatusRepository
	Fallbacks fb.Repository
	Clock     application.Clock
	Callback  CallbackConfig
}

// CallbackConfig holds the base origin used to build the callback URL when
// the caller does not supply one. Kept explicit so there is no hidden
// dependency on the current request context.
type CallbackConfig struct {
	DefaultOrigin string
	Path          string // e.g. /callbacks/v1/startups/%s/analysis
}

//
// ==== USE CASES ====
//

// Command untuk trigger dispatch
type DispatchCommand struct {
	TenantID    string
	StartupID   string
	StartupName string
	FileRefs    []string
	Origin      string // optional override for the callback URL base
}

// Dispatch membangun payload → kirim lewat webhook → update status.
// Pada kegagalan delivery, simpan fallback record dulu baru return error.
// State machine: NotStarted → Building → Sending → {Succeeded, Failed}.
func (s *Service) Dispatch(ctx context.Context, cmd DispatchCommand) error {
	if len(cmd.FileRefs) == 0 {
		return domain.ErrNoFiles
	}

	dispatchID := uuid.New().String()

	payload, err := s.BuildPayload(ctx, cmd)
	if err != nil {
		// construction failed: there is no payload worth saving, surface as-is
		return err
	}

	out, err := s.Sender.Send(ctx, payload)
	if err != nil {
		// programmer error (e.g. serialization), not a delivery failure
		return fmt.Errorf("send payload: %w", err)
	}

	if out.Delivered() {
		// remote job is running; a failed local status write must not turn
		// this into a visible failure
		if serr := s.Statuses.MarkProcessing(ctx, cmd.TenantID, domain.StartupID(cmd.StartupID), cmd.StartupName, s.Clock.Now().UTC()); serr != nil {
			log.Printf("dispatch=%s startup=%s status upsert failed (webhook delivered): %v",
				dispatchID, cmd.StartupID, serr)
		}
		log.Printf("dispatch=%s startup=%s delivered: status=%d", dispatchID, cmd.StartupID, out.StatusCode)
		return nil
	}

	s.saveFallback(ctx, dispatchID, cmd, payload, out)
	return &domain.DeliveryError{Outcome: out}
}

// FetchStatus ambil status analysis terakhir untuk satu startup
func (s *Service) FetchStatus(ctx context.Context, id domain.StartupID) (*domain.AnalysisStatus, error) {
	return s.Statuses.Get(ctx, id)
}

// CompleteFromCallback stores the terminal state reported by the engine's
// callback. Anything the engine calls a failure maps to failed_webhook.
func (s *Service) CompleteFromCallback(ctx context.Context, id domain.StartupID, succeeded bool) error {
	status := domain.StatusCompleted
	if !succeeded {
		status = domain.StatusFailedWebhook
	}
	return s.Statuses.Complete(ctx, id, status, s.Clock.Now().UTC())
}

// LatestFallbacks listing untuk operator replay
func (s *Service) LatestFallbacks(ctx context.Context, tenant string, limit int) ([]*fb.Record, error) {
	return s.Fallbacks.Latest(ctx, tenant, limit)
}

// saveFallback is best-effort: a failure to persist the record is logged and
// must never mask the delivery failure being reported to the caller.
func (s *Service) saveFallback(ctx context.Context, dispatchID string, cmd DispatchCommand, payload *domain.DispatchPayload, out domain.DispatchOutcome) {
	rec := &fb.Record{
		ID:          dispatchID,
		TenantID:    cmd.TenantID,
		StartupID:   cmd.StartupID,
		StartupName: cmd.StartupName,
		Reason:      string(out.Kind),
		SavedAt:     s.Clock.Now().UTC(),
	}
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			rec.PayloadJSON = string(b)
		}
	}
	if err := s.Fallbacks.Save(ctx, rec); err != nil {
		log.Printf("dispatch=%s startup=%s fallback save failed: %v", dispatchID, cmd.StartupID, err)
		return
	}
	log.Printf("dispatch=%s startup=%s saved fallback record (%s)", dispatchID, cmd.StartupID, out.Kind)
}
