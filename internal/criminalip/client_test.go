package criminalip

import (
	"bytes"
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obegron/ipscope/internal/errors"
	"github.com/obegron/ipscope/internal/jsonvalue"
)

func newUpstream(t *testing.T, suspiciousStatus int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "8.8.8.8", r.URL.Query().Get("ip"))

		switch r.URL.Path {
		case MaliciousEndpoint:
			w.Write([]byte(`{"ip":"8.8.8.8","score":{"inbound":12,"outbound":3},"issues":{"is_malware_host":false}}`))
		case SuspiciousEndpoint:
			if suspiciousStatus != http.StatusOK {
				w.WriteHeader(suspiciousStatus)
				return
			}
			w.Write([]byte(`{"ip":"8.8.8.8","score":{"inbound":5,"outbound":0},"issues":{"is_vpn":false}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestAnalyze_Success(t *testing.T) {
	srv, calls := newUpstream(t, http.StatusOK)
	c := NewClient(Config{BaseURL: srv.URL, MockFallback: true}, zerolog.Nop())

	res, err := c.Analyze(context.Background(), "secret", " 8.8.8.8 ")
	require.NoError(t, err)

	assert.False(t, res.Mock)
	assert.Equal(t, "8.8.8.8", res.IP)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))

	in, ok := res.Malicious.Lookup("score", "inbound")
	require.True(t, ok)
	assert.Equal(t, "12", in.String())

	assert.Equal(t, []string{"malicious", "suspicious"}, res.Combined().Keys())
}

func TestAnalyze_FailureFallsBackToDemo(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusServiceUnavailable)
	var logs bytes.Buffer
	c := NewClient(Config{BaseURL: srv.URL, MockFallback: true}, zerolog.New(&logs))

	res, err := c.Analyze(context.Background(), "secret", "8.8.8.8")
	require.NoError(t, err)

	assert.True(t, res.Mock)
	assert.Equal(t, DefaultTarget, res.IP)
	city, _ := res.Suspicious.Get("city")
	assert.Equal(t, "Moscow", city.String())
	assert.Contains(t, logs.String(), "Suspicious API request failed: Service Unavailable")
}

func TestAnalyze_FailureWithoutFallback(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusForbidden)
	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())

	_, err := c.Analyze(context.Background(), "secret", "8.8.8.8")
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorTypeAPI, appErr.Type)
	assert.Contains(t, err.Error(), "Suspicious API request failed: Forbidden")
}

func TestAnalyze_SequentialStopsAfterFirstFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	_, err := c.Analyze(context.Background(), "secret", "8.8.8.8")

	assert.ErrorContains(t, err, "Malicious API request failed: Unauthorized")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestAnalyze_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	_, err := c.Analyze(context.Background(), "secret", "8.8.8.8")
	assert.ErrorIs(t, err, errors.ErrInvalidJSON)
}

func TestAnalyze_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, zerolog.Nop())
	_, err := c.Analyze(context.Background(), "secret", "8.8.8.8")

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorTypeNetwork, appErr.Type)
}

func TestAnalyze_MissingInput(t *testing.T) {
	c := NewClient(Config{MockFallback: true}, zerolog.Nop())

	_, err := c.Analyze(context.Background(), "", "8.8.8.8")
	assert.ErrorIs(t, err, errors.ErrMissingCredentials)

	_, err = c.Analyze(context.Background(), "key", "   ")
	assert.ErrorIs(t, err, errors.ErrMissingCredentials)
}

func TestDemoResult(t *testing.T) {
	res := DemoResult()
	assert.True(t, res.Mock)

	in, ok := res.Malicious.Lookup("score", "inbound")
	require.True(t, ok)
	assert.Equal(t, "85", in.String())

	assert.Equal(t,
		[]string{"is_malware_host", "is_phishing", "is_botnet", "is_spam", "is_exploit_kit"},
		mustGet(t, res.Malicious, "issues").Keys())
}

func mustGet(t *testing.T, v jsonvalue.Value, key string) jsonvalue.Value {
	t.Helper()
	got, ok := v.Get(key)
	require.True(t, ok, key)
	return got
}
