package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wgpeerd/internal/collector"
	"wgpeerd/internal/logging"
)

type fakeSource struct {
	peers      []collector.PeerStatus
	devices    []collector.DeviceStatus
	lastUpdate time.Time
	lastErr    string
	healthy    bool
}

func (f *fakeSource) Peers() []collector.PeerStatus     { return f.peers }
func (f *fakeSource) Devices() []collector.DeviceStatus { return f.devices }
func (f *fakeSource) LastUpdate() time.Time             { return f.lastUpdate }
func (f *fakeSource) LastError() string                 { return f.lastErr }
func (f *fakeSource) Healthy() bool                     { return f.healthy }

func newTestServer(src *fakeSource) *Server {
	logger := logging.New(logging.Config{Level: logging.LevelError, Output: os.Stderr})
	return NewServer("127.0.0.1:0", src, logger)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	src := &fakeSource{healthy: true}
	s := newTestServer(src)

	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")

	src.healthy = false
	src.lastErr = "failed to open wgctrl"
	rec = get(t, s, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "scrape stale", resp.Error)
	assert.Equal(t, "failed to open wgctrl", resp.Details)
}

func TestPeersEndpoint(t *testing.T) {
	src := &fakeSource{
		peers: []collector.PeerStatus{
			{
				Interface:  "wg0",
				PublicKey:  "abc=",
				Name:       "laptop",
				AllowedIPs: []string{"10.0.0.2/32"},
			},
		},
		lastUpdate: time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
		healthy:    true,
	}
	s := newTestServer(src)

	rec := get(t, s, "/api/v1/peers")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Peers []collector.PeerStatus `json:"peers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Peers, 1)
	assert.Equal(t, "laptop", resp.Peers[0].Name)
	assert.Equal(t, "abc=", resp.Peers[0].PublicKey)
}

func TestPeersEndpoint_Empty(t *testing.T) {
	s := newTestServer(&fakeSource{})

	rec := get(t, s, "/api/v1/peers")
	require.Equal(t, http.StatusOK, rec.Code)
	// nil snapshot serializes as an empty list, not null.
	assert.Contains(t, rec.Body.String(), `"peers":[]`)
}

func TestStatusEndpoint(t *testing.T) {
	src := &fakeSource{
		devices: []collector.DeviceStatus{{Interface: "wg0", ListenPort: 51820, PeerCount: 3}},
		healthy: true,
	}
	s := newTestServer(src)

	rec := get(t, s, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Healthy   bool                     `json:"healthy"`
		Devices   []collector.DeviceStatus `json:"devices"`
		PeerCount int                      `json:"peer_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Healthy)
	require.Len(t, resp.Devices, 1)
	assert.Equal(t, 51820, resp.Devices[0].ListenPort)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&fakeSource{healthy: true})

	rec := get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# HELP")
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(&fakeSource{healthy: true})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/peers", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
