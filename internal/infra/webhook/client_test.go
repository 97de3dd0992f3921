package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/andikahmadr/diligence-api/internal/domain/analysis"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func okResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func payloadFixture() *domain.DispatchPayload {
	return &domain.DispatchPayload{
		StartupID:   "s1",
		StartupName: "Acme",
		Files: []domain.PayloadFile{
			{Path: "acme/s1/f1.pdf", DisplayName: "f1.pdf", RetrievalURL: "https://files/f1", ContentType: "application/pdf"},
		},
		Metadata: domain.PayloadMetadata{TotalFiles: 1, ContentTypes: []string{"application/pdf"}},
	}
}

func TestSendSuccess(t *testing.T) {
	var gotContentType string
	var gotBody domain.DispatchPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	out, err := c.Send(context.Background(), payloadFixture())

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSuccess, out.Kind)
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Equal(t, "ok", out.Body)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "s1", gotBody.StartupID)
}

func TestSendHTTPErrorNoRetryCapturesBody(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.MaxAttempts = 3
	c.BaseDelay = time.Millisecond
	out, err := c.Send(context.Background(), payloadFixture())

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeHTTPError, out.Kind)
	assert.Equal(t, http.StatusInternalServerError, out.StatusCode)
	assert.Equal(t, "boom", out.Body)
	// respon HTTP (status apapun) menghentikan retry
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestSendRetriesNetworkErrorsWithIncreasingDelay(t *testing.T) {
	var times []time.Time
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		times = append(times, time.Now())
		return nil, errors.New("connection refused")
	})

	c := New("http://engine.invalid/hook")
	c.HTTPClient = &http.Client{Transport: rt}
	c.MaxAttempts = 3
	c.BaseDelay = 20 * time.Millisecond

	out, err := c.Send(context.Background(), payloadFixture())

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNetworkError, out.Kind)
	require.Error(t, out.Cause)
	require.Len(t, times, 3)

	// delay = base * attemptNumber: gap kedua harus lebih besar dari gap pertama
	gap1 := times[1].Sub(times[0])
	gap2 := times[2].Sub(times[1])
	assert.GreaterOrEqual(t, gap1, 20*time.Millisecond)
	assert.GreaterOrEqual(t, gap2, 40*time.Millisecond)
}

func TestSendNetworkErrorThenSuccessWithinBudget(t *testing.T) {
	var attempts int32
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			return nil, errors.New("connection reset by peer")
		}
		return okResponse("ok"), nil
	})

	c := New("http://engine.invalid/hook")
	c.HTTPClient = &http.Client{Transport: rt}
	c.MaxAttempts = 2
	c.BaseDelay = time.Millisecond

	out, err := c.Send(context.Background(), payloadFixture())

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSuccess, out.Kind)
	assert.Equal(t, "ok", out.Body)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestSendTimeoutIsNotRetried(t *testing.T) {
	var attempts int32
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&attempts, 1)
		<-r.Context().Done()
		return nil, r.Context().Err()
	})

	c := New("http://engine.invalid/hook")
	c.HTTPClient = &http.Client{Transport: rt}
	c.Timeout = 20 * time.Millisecond
	c.MaxAttempts = 3
	c.BaseDelay = time.Millisecond

	out, err := c.Send(context.Background(), payloadFixture())

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeTimeout, out.Kind, "per-attempt deadline must classify as timeout, not network error")
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestSendBodyReadFailureIsSwallowed(t *testing.T) {
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(&failingReader{}),
			Header:     make(http.Header),
		}, nil
	})

	c := New("http://engine.invalid/hook")
	c.HTTPClient = &http.Client{Transport: rt}

	out, err := c.Send(context.Background(), payloadFixture())

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeHTTPError, out.Kind)
	assert.Equal(t, http.StatusBadGateway, out.StatusCode)
	assert.Empty(t, out.Body)
}

type failingReader struct{}

func (*failingReader) Read([]byte) (int, error) { return 0, errors.New("read: connection reset") }
