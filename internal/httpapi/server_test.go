// internal/httpapi/server_test.go
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epaperd/epaperd/internal/fleet"
	"github.com/epaperd/epaperd/internal/probe"
	"github.com/epaperd/epaperd/internal/tracker"
)

type fakeQuerier struct {
	snaps []probe.Snapshot
}

func (f *fakeQuerier) QueryAll(context.Context) []probe.Snapshot {
	return f.snaps
}

func testServer(t *testing.T) (*Server, *tracker.Tracker, *fakeQuerier) {
	t.Helper()
	reg, err := fleet.NewRegistry([]fleet.Display{
		{Name: "kitchen", Host: "192.168.1.121", Port: 8080, Width: 800, Height: 480, Mode: fleet.ModeBWR},
		{Name: "office", Host: "192.168.1.106", Port: 8080, Width: 480, Height: 280, Mode: fleet.ModeGray},
	})
	require.NoError(t, err)

	trk := tracker.New(reg)
	q := &fakeQuerier{}
	return NewServer(":0", reg, trk, q), trk, q
}

func do(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	s.registerRoutes(r)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)

	var body map[string]any
	if w.Code == http.StatusOK || w.Code == http.StatusNotFound {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestHandleHealth(t *testing.T) {
	s, _, _ := testServer(t)
	w, body := do(t, s, "/api/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["displays"])
}

func TestHandleDisplays(t *testing.T) {
	s, _, _ := testServer(t)
	w, body := do(t, s, "/api/displays")

	assert.Equal(t, http.StatusOK, w.Code)
	displays := body["displays"].([]any)
	require.Len(t, displays, 2)

	first := displays[0].(map[string]any)
	assert.Equal(t, "kitchen", first["name"])
	assert.Equal(t, "800x480", first["resolution"])
	assert.Equal(t, "BWR", first["mode"])
}

func TestHandleHistory(t *testing.T) {
	s, trk, _ := testServer(t)
	trk.RecordAttempt("kitchen")
	trk.RecordSuccess("kitchen")
	trk.RecordError("office", "timeout")

	w, body := do(t, s, "/api/history")
	assert.Equal(t, http.StatusOK, w.Code)

	records := body["history"].([]any)
	require.Len(t, records, 2)

	kitchen := records[0].(map[string]any)
	assert.Equal(t, "kitchen", kitchen["name"])
	assert.Equal(t, float64(1), kitchen["success_count"])

	office := records[1].(map[string]any)
	assert.Equal(t, float64(1), office["error_count"])
	assert.Equal(t, "timeout", office["last_error_message"])
}

func TestHandleHistoryOne(t *testing.T) {
	s, trk, _ := testServer(t)
	trk.RecordSuccess("kitchen")

	w, body := do(t, s, "/api/history/kitchen")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["success_count"])
}

func TestHandleHistoryOne_Unknown(t *testing.T) {
	s, _, _ := testServer(t)
	w, body := do(t, s, "/api/history/pantry")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "unknown display", body["error"])
}

func TestHandleStatus(t *testing.T) {
	s, _, q := testServer(t)
	q.snaps = []probe.Snapshot{
		{Name: "kitchen", Reachable: true, HasReport: true, Width: 800, Height: 480,
			Mode: fleet.ModeBWR, Latency: 15 * time.Millisecond, At: time.Now()},
		{Name: "office", Reachable: false, At: time.Now()},
	}

	w, body := do(t, s, "/api/status")
	assert.Equal(t, http.StatusOK, w.Code)

	status := body["status"].([]any)
	require.Len(t, status, 2)

	kitchen := status[0].(map[string]any)
	assert.Equal(t, true, kitchen["reachable"])
	assert.Equal(t, "800x480", kitchen["resolution"])
	assert.Equal(t, "BWR", kitchen["mode"])
	assert.Equal(t, float64(15), kitchen["latency_ms"])

	office := status[1].(map[string]any)
	assert.Equal(t, false, office["reachable"])
	_, hasRes := office["resolution"]
	assert.False(t, hasRes, "no reported fields when unreachable")
}
