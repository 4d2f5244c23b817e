package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"shopscribe/extract"
	"shopscribe/generator"
	"shopscribe/logbuf"
	"shopscribe/session"
)

const widgetBatch = `{"header":"Great Widget","description":"A fine widget for every home.","features":"- Durable\n- Lightweight"}`

func newTestServer(t *testing.T, mock *generator.MockLLM) *httptest.Server {
	t.Helper()
	orc, err := generator.NewOrchestrator(mock)
	require.NoError(t, err)
	srv, err := New(orc, extract.NewPipeline(nil), logbuf.NewBuffer(100), nil, 0)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeSnapshot(t *testing.T, resp *http.Response) session.Snapshot {
	t.Helper()
	defer resp.Body.Close()
	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func createStudio(t *testing.T, ts *httptest.Server) session.Snapshot {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/studios", map[string]string{
		"input": "Fancy Gadget\nA gadget for the modern home.\n- Small\n- Quiet",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeSnapshot(t, resp)
}

func TestCreateStudio_GeneratesContent(t *testing.T) {
	ts := newTestServer(t, &generator.MockLLM{Responses: []string{widgetBatch}})
	snap := createStudio(t, ts)

	require.NotEmpty(t, snap.ID)
	require.Equal(t, session.StateReady, snap.State)
	require.Equal(t, "Great Widget", snap.Content[generator.SectionHeader])
	require.Contains(t, snap.Content, generator.SectionPhoto)
	require.NotContains(t, snap.Content, generator.SectionReviews)
}

func TestCreateStudio_GatewayFailure(t *testing.T) {
	ts := newTestServer(t, &generator.MockLLM{Responses: []string{"garbage, not json"}})
	resp := postJSON(t, ts.URL+"/api/studios", map[string]string{"input": "Fancy Gadget\nnice."})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	snap := decodeSnapshot(t, resp)
	require.Equal(t, session.StateNoContent, snap.State)
	require.NotEmpty(t, snap.Error)
}

func TestStudioLifecycle(t *testing.T) {
	mock := &generator.MockLLM{Responses: []string{widgetBatch, "A better description."}}
	ts := newTestServer(t, mock)
	snap := createStudio(t, ts)
	base := ts.URL + "/api/studios/" + snap.ID

	// Edit a section locally.
	snap = decodeSnapshot(t, postJSON(t, base+"/edit", map[string]string{
		"section": "header", "text": "My Header",
	}))
	require.Equal(t, "My Header", snap.Content[generator.SectionHeader])

	// Regenerate the description.
	snap = decodeSnapshot(t, postJSON(t, base+"/regenerate", map[string]string{"section": "description"}))
	require.Equal(t, 2, mock.Calls())

	// Fetch state.
	resp, err := http.Get(base)
	require.NoError(t, err)
	snap = decodeSnapshot(t, resp)
	require.Equal(t, "My Header", snap.Content[generator.SectionHeader])

	// Clear drops content.
	snap = decodeSnapshot(t, postJSON(t, base+"/clear", map[string]string{}))
	require.Equal(t, session.StateNoContent, snap.State)
	require.Nil(t, snap.Content)
}

func TestExportEndpoints(t *testing.T) {
	ts := newTestServer(t, &generator.MockLLM{Responses: []string{widgetBatch}})
	snap := createStudio(t, ts)
	base := ts.URL + "/api/studios/" + snap.ID

	resp, err := http.Get(base + "/export/markdown")
	require.NoError(t, err)
	body := readAll(t, resp)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")
	require.Contains(t, body, "## Great Widget")

	resp, err = http.Get(base + "/export/document")
	require.NoError(t, err)
	body = readAll(t, resp)
	require.Contains(t, resp.Header.Get("Content-Disposition"), `filename="great-widget.html"`)
	require.Contains(t, body, "<title>Great Widget</title>")
}

func TestUnknownStudio(t *testing.T) {
	ts := newTestServer(t, &generator.MockLLM{})
	resp, err := http.Get(ts.URL + "/api/studios/nope")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBadSectionRequest(t *testing.T) {
	ts := newTestServer(t, &generator.MockLLM{Responses: []string{widgetBatch}})
	snap := createStudio(t, ts)
	resp := postJSON(t, ts.URL+"/api/studios/"+snap.ID+"/regenerate", map[string]string{"section": "bogus"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogsEndpoint(t *testing.T) {
	mock := &generator.MockLLM{Responses: []string{widgetBatch}}
	orc, err := generator.NewOrchestrator(mock)
	require.NoError(t, err)

	logs := logbuf.NewBuffer(100)
	logger := slog.New(logbuf.NewHandler(slog.NewTextHandler(io.Discard, nil), logs))
	srv, err := New(orc, extract.NewPipeline(nil), logs, logger, 0)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	createStudio(t, ts)
	resp, err := http.Get(ts.URL + "/api/logs")
	require.NoError(t, err)
	body := readAll(t, resp)
	require.Contains(t, body, "[START]")
	require.Contains(t, body, "[SUCCESS]")
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
