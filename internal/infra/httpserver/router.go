package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/andikahmadr/diligence-api/internal/application/analysis"
	domain "github.com/andikahmadr/diligence-api/internal/domain/analysis"
	"github.com/andikahmadr/diligence-api/internal/middleware"
)

type Router struct {
	analysisSvc *appanalysis.Service
	files       domain.FileStore
}

var errTenantMismatch = errors.New("tenant does not match API key")

func NewRouter(analysisSvc *appanalysis.Service, files domain.FileStore) http.Handler {
	r := &Router{analysisSvc: analysisSvc, files: files}
	mux := chi.NewRouter()

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/startups/{id}/analysis", r.wrap(r.handleTriggerAnalysis))
		rt.Get("/startups/{id}/analysis", r.wrap(r.handleAnalysisStatus))
		rt.Put("/startups/{id}/files/{name}", r.wrap(r.handleUploadFile))
		rt.Get("/fallbacks", r.wrap(r.handleFallbacks))
	})

	// callback dari analysis engine, di luar group auth
	mux.Post("/callbacks/v1/startups/{id}/analysis", r.wrap(r.handleAnalysisCallback))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var cerr *domain.ConstructionError
			var derr *domain.DeliveryError
			switch {
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, errTenantMismatch):
				http.Error(w, err.Error(), http.StatusForbidden)
			case errors.Is(err, domain.ErrNoFiles), errors.As(err, &cerr):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.As(err, &derr):
				// pesan DeliveryError sudah dibedakan per kind
				http.Error(w, err.Error(), http.StatusBadGateway)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// requireTenant cocokkan tenant di URL dengan tenant hasil auth (kalau ada)
func requireTenant(req *http.Request) (string, error) {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return "", err
	}
	if auth := middleware.GetTenantFromContext(req.Context()); auth != "" && auth != tenant {
		return "", errTenantMismatch
	}
	return tenant, nil
}

// POST /v1/{tenant}/startups/{id}/analysis
// Body: {"name": "...", "files": ["deck.pdf", ...], "origin": "https://app.example.com"}
// Returns 202 once the webhook is delivered; the remote job finishes later
// and reports back through the callback endpoint.
func (r *Router) handleTriggerAnalysis(w http.ResponseWriter, req *http.Request) error {
	tenant, err := requireTenant(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateStartupID(id); err != nil {
		return err
	}

	var body struct {
		Name   string   `json:"name"`
		Files  []string `json:"files"`
		Origin string   `json:"origin"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if body.Origin != "" {
		if err := middleware.ValidateURL(body.Origin); err != nil {
			return err
		}
	}
	for _, ref := range body.Files {
		if err := middleware.ValidateFileRef(ref); err != nil {
			return err
		}
	}

	middleware.IncrementDispatches()
	err = r.analysisSvc.Dispatch(req.Context(), appanalysis.DispatchCommand{
		TenantID:    tenant,
		StartupID:   id,
		StartupName: body.Name,
		FileRefs:    body.Files,
		Origin:      body.Origin,
	})
	if err != nil {
		middleware.IncrementDispatchesFailed()
		var derr *domain.DeliveryError
		if errors.As(err, &derr) {
			middleware.IncrementFallbacksSaved()
		}
		return err
	}

	resp := map[string]any{
		"startup_id":  id,
		"status":      string(domain.StatusProcessing),
		"total_files": len(body.Files),
		"message":     "analysis dispatched to engine",
		"queuedAt":    time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	return json.NewEncoder(w).Encode(resp)
}

// GET /v1/{tenant}/startups/{id}/analysis
func (r *Router) handleAnalysisStatus(w http.ResponseWriter, req *http.Request) error {
	if _, err := requireTenant(req); err != nil {
		return err
	}
	id := chi.URLParam(req, "id")

	status, err := r.analysisSvc.FetchStatus(req.Context(), domain.StartupID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(status)
}

// POST /callbacks/v1/startups/{id}/analysis
// Body: {"status": "completed"} atau {"status": "failed"}
// Dipanggil analysis engine saat job selesai; hanya simpan terminal state.
func (r *Router) handleAnalysisCallback(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateStartupID(id); err != nil {
		return err
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if body.Status == "" {
		return fmt.Errorf("status is required")
	}

	succeeded := body.Status == "completed"
	if err := r.analysisSvc.CompleteFromCallback(req.Context(), domain.StartupID(id), succeeded); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"ok": true})
}

// GET /v1/{tenant}/fallbacks?limit=20
func (r *Router) handleFallbacks(w http.ResponseWriter, req *http.Request) error {
	tenant, err := requireTenant(req)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.analysisSvc.LatestFallbacks(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// PUT /v1/{tenant}/startups/{id}/files/{name}
func (r *Router) handleUploadFile(w http.ResponseWriter, req *http.Request) error {
	tenant, err := requireTenant(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	name := chi.URLParam(req, "name")
	if err := middleware.ValidateStartupID(id); err != nil {
		return err
	}
	if err := middleware.ValidateFileRef(name); err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s/%s", tenant, id, name)
	url, err := r.files.Upload(req.Context(), key, req.Body, req.ContentLength, req.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(map[string]any{"path": key, "url": url})
}
