package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/andikahmadr/diligence-api/internal/domain/analysis"
)

func TestBuildPayloadMetadataInvariants(t *testing.T) {
	resolver := &stubResolver{files: []domain.ResolvedFile{
		{Path: "acme/s1/deck.pdf", RetrievalURL: "https://files/deck", ContentType: "application/pdf"},
		{Path: "acme/s1/cap-table.xlsx", RetrievalURL: "https://files/cap", ContentType: "application/vnd.ms-excel"},
		{Path: "acme/s1/notes.txt", RetrievalURL: "https://files/notes"}, // content type kosong
		{Path: "acme/s1/summary.pdf", RetrievalURL: "https://files/sum", ContentType: "application/pdf"},
	}}
	svc := newTestService(resolver, &stubSender{}, &stubStatuses{}, &stubFallbacks{})

	cmd := dispatchCmd()
	cmd.FileRefs = []string{"deck.pdf", "cap-table.xlsx", "notes.txt", "summary.pdf"}
	p, err := svc.BuildPayload(context.Background(), cmd)

	require.NoError(t, err)
	assert.Equal(t, len(p.Files), p.Metadata.TotalFiles)
	assert.Equal(t, 4, p.Metadata.TotalFiles)
	// deduplicated, sorted, with the unknown sentinel for the missing type
	assert.Equal(t, []string{"application/pdf", "application/vnd.ms-excel", "unknown"}, p.Metadata.ContentTypes)
	assert.Equal(t, testNow, p.Metadata.DispatchedAt)
}

func TestBuildPayloadPreservesOrderAndDisplayNames(t *testing.T) {
	resolver := &stubResolver{files: resolvedFixture()}
	svc := newTestService(resolver, &stubSender{}, &stubStatuses{}, &stubFallbacks{})

	p, err := svc.BuildPayload(context.Background(), dispatchCmd())

	require.NoError(t, err)
	require.Len(t, p.Files, 2)
	assert.Equal(t, "acme/s1/f1.pdf", p.Files[0].Path)
	assert.Equal(t, "f1.pdf", p.Files[0].DisplayName)
	assert.Equal(t, "acme/s1/f2.pdf", p.Files[1].Path)
	assert.Equal(t, "f2.pdf", p.Files[1].DisplayName)
	assert.Equal(t, "Acme", p.StartupName)
}

func TestCallbackURLFromDefaultOrigin(t *testing.T) {
	svc := newTestService(&stubResolver{files: resolvedFixture()}, &stubSender{}, &stubStatuses{}, &stubFallbacks{})
	svc.Callback.DefaultOrigin = "https://api.example.com/"

	p, err := svc.BuildPayload(context.Background(), dispatchCmd())

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/callbacks/v1/startups/s1/analysis", p.CallbackURL)
}

func TestCallbackURLOriginOverride(t *testing.T) {
	svc := newTestService(&stubResolver{files: resolvedFixture()}, &stubSender{}, &stubStatuses{}, &stubFallbacks{})

	cmd := dispatchCmd()
	cmd.Origin = "https://staging.example.com"
	p, err := svc.BuildPayload(context.Background(), cmd)

	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com/callbacks/v1/startups/s1/analysis", p.CallbackURL)
}

func TestCallbackURLEmptyWhenNoOriginConfigured(t *testing.T) {
	svc := newTestService(&stubResolver{files: resolvedFixture()}, &stubSender{}, &stubStatuses{}, &stubFallbacks{})
	svc.Callback.DefaultOrigin = ""

	p, err := svc.BuildPayload(context.Background(), dispatchCmd())

	require.NoError(t, err)
	assert.Empty(t, p.CallbackURL)
}
