package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fronthaul-lab/internal/config"
	"fronthaul-lab/internal/domain"
	"fronthaul-lab/internal/storage"
)

// fakeStore serves a fixed snapshot and counts refreshes.
type fakeStore struct {
	snap      *domain.Snapshot
	err       error
	refreshes int
}

func (f *fakeStore) Latest() (*domain.Snapshot, error) {
	if f.snap == nil {
		return nil, storage.ErrEmpty
	}
	return f.snap, nil
}

func (f *fakeStore) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	f.refreshes++
	return f.snap, f.err
}

func (f *fakeStore) LatestOrRefresh(ctx context.Context) (*domain.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

var _ storage.SnapshotStore = (*fakeStore)(nil)

func apiSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		GeneratedAt: time.Now().UTC(),
		Topology: &domain.TopologyGraph{
			Nodes: []domain.TopologyNode{{ID: "DU", Type: domain.NodeTypeDU, Label: "DU"}},
		},
		CellIDs:    []int{0, 1},
		CellToLink: map[int]int{0: 0, 1: 1},
		Traffic: []domain.TrafficPoint{
			{Slot: 0, TimeSec: 0, LinkGbps: []float64{1.0, 2.0}},
		},
		Congestion: map[int]domain.CongestionRecord{
			0: {P95Gbps: 0.9, MeanGbps: 0.8, LinkID: 0},
			1: {P95Gbps: 1.9, MeanGbps: 1.7, LinkID: 1},
		},
		LinkCapacities: map[string]float64{"link_1_gbps": 1.0, "link_2_gbps": 2.0},
		Estimates: map[string]domain.CapacityEstimate{
			"link_1": {WithBufferGbps: 0.9, WithoutBufferGbps: 1.0, BufferDurationUS: 143, PacketLossBudgetPercent: 1},
		},
	}
}

func newTestServer(store storage.SnapshotStore) *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewServer(config.Default(), log, store)
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func TestGetRoot(t *testing.T) {
	s := newTestServer(&fakeStore{snap: apiSnapshot()})
	rec := do(t, s, http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/topology")
}

func TestGetTopology(t *testing.T) {
	s := newTestServer(&fakeStore{snap: apiSnapshot()})
	rec := do(t, s, http.MethodGet, "/api/topology")

	require.Equal(t, http.StatusOK, rec.Code)

	var graph domain.TopologyGraph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &graph))
	assert.Equal(t, "DU", graph.Nodes[0].ID)
}

func TestGetTraffic(t *testing.T) {
	s := newTestServer(&fakeStore{snap: apiSnapshot()})
	rec := do(t, s, http.MethodGet, "/api/traffic")

	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0]["link_1_gbps"])
}

func TestGetDashboard(t *testing.T) {
	s := newTestServer(&fakeStore{snap: apiSnapshot()})
	rec := do(t, s, http.MethodGet, "/api/dashboard")

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload, "congestion")
	assert.Contains(t, payload, "link_capacities")
	assert.Contains(t, payload, "cell_to_link")
}

func TestGetCapacity_DefaultsToWithBuffer(t *testing.T) {
	s := newTestServer(&fakeStore{snap: apiSnapshot()})
	rec := do(t, s, http.MethodGet, "/api/capacity")

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		WithBuffer bool `json:"with_buffer"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.WithBuffer)
}

func TestGetCapacity_WithoutBuffer(t *testing.T) {
	s := newTestServer(&fakeStore{snap: apiSnapshot()})
	rec := do(t, s, http.MethodGet, "/api/capacity?with_buffer=false")

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		WithBuffer bool                               `json:"with_buffer"`
		Estimates  map[string]domain.CapacityEstimate `json:"estimates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.False(t, payload.WithBuffer)
	assert.Equal(t, 0.0, payload.Estimates["link_1"].BufferDurationUS)
}

func TestGetCapacity_InvalidQuery(t *testing.T) {
	s := newTestServer(&fakeStore{snap: apiSnapshot()})
	rec := do(t, s, http.MethodGet, "/api/capacity?with_buffer=maybe")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostProcess_Refreshes(t *testing.T) {
	store := &fakeStore{snap: apiSnapshot()}
	s := newTestServer(store)

	rec := do(t, s, http.MethodPost, "/api/process")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.refreshes)
	assert.Contains(t, rec.Body.String(), "link_capacities")
}

func TestPostProcess_FailureIs500(t *testing.T) {
	s := newTestServer(&fakeStore{err: errors.New("boom")})
	rec := do(t, s, http.MethodPost, "/api/process")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReadEndpoints_FailureIs500(t *testing.T) {
	s := newTestServer(&fakeStore{err: errors.New("boom")})

	for _, path := range []string{"/api/topology", "/api/traffic", "/api/dashboard", "/api/capacity"} {
		rec := do(t, s, http.MethodGet, path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
	}
}

func TestGetReports(t *testing.T) {
	s := newTestServer(&fakeStore{snap: apiSnapshot()})
	rec := do(t, s, http.MethodGet, "/api/reports")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "innovations")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&fakeStore{snap: apiSnapshot()})
	rec := do(t, s, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&fakeStore{snap: apiSnapshot()})
	rec := do(t, s, http.MethodOptions, "/api/topology")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
