package analysis

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	domain "github.com/andikahmadr/diligence-api/internal/domain/analysis"
)

// BuildPayload resolve semua file refs jadi retrieval URL dan rakit
// DispatchPayload lengkap dengan metadata.
// Input refs sudah dijamin non-empty oleh Dispatch.
func (s *Service) BuildPayload(ctx context.Context, cmd DispatchCommand) (*domain.DispatchPayload, error) {
	resolved, err := s.Resolver.Resolve(ctx, cmd.FileRefs)
	if err != nil {
		return nil, &domain.ConstructionError{Supplied: len(cmd.FileRefs), Err: err}
	}
	if len(resolved) == 0 {
		// semua refs broken/unauthorized; beda dengan "no files supplied"
		return nil, &domain.ConstructionError{Supplied: len(cmd.FileRefs)}
	}

	files := make([]domain.PayloadFile, 0, len(resolved))
	seen := make(map[string]struct{}, len(resolved))
	var types []string
	for _, rf := range resolved {
		ct := rf.ContentType
		if strings.TrimSpace(ct) == "" {
			ct = domain.UnknownContentType
		}
		if _, ok := seen[ct]; !ok {
			seen[ct] = struct{}{}
			types = append(types, ct)
		}
		files = append(files, domain.PayloadFile{
			Path:         rf.Path,
			DisplayName:  path.Base(rf.Path),
			RetrievalURL: rf.RetrievalURL,
			Size:         rf.Size,
			ContentType:  rf.ContentType,
		})
	}
	// set semantics: order is irrelevant, keep it deterministic
	sort.Strings(types)

	return &domain.DispatchPayload{
		StartupID:   cmd.StartupID,
		StartupName: cmd.StartupName,
		Files:       files,
		CallbackURL: s.callbackURL(cmd),
		Metadata: domain.PayloadMetadata{
			TotalFiles:   len(files),
			ContentTypes: types,
			DispatchedAt: s.Clock.Now().UTC(),
		},
	}, nil
}

// callbackURL pakai origin dari caller kalau ada, fallback ke default origin
func (s *Service) callbackURL(cmd DispatchCommand) string {
	origin := s.Callback.DefaultOrigin
	if cmd.Origin != "" {
		origin = cmd.Origin
	}
	if origin == "" {
		return ""
	}
	p := s.Callback.Path
	if p == "" {
		p = "/callbacks/v1/startups/%s/analysis"
	}
	return strings.TrimRight(origin, "/") + fmt.Sprintf(p, cmd.StartupID)
}
