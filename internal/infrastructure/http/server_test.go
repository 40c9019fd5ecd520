package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rebuildintel/rebuild-go/internal/adapters/geometry"
	"github.com/rebuildintel/rebuild-go/internal/adapters/narrative"
	"github.com/rebuildintel/rebuild-go/internal/adapters/reportstore"
	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
	"github.com/rebuildintel/rebuild-go/internal/domain/usecases"
)

func newTestServer(t *testing.T) (*Server, *reportstore.InMemoryArchive) {
	t.Helper()

	archive := reportstore.NewInMemoryArchive()
	analyzer := usecases.NewAnalyzeUseCase(usecases.DefaultEngineConfig(), narrative.NewDisabled())
	process := usecases.NewProcessUseCase(analyzer, archive, geometry.NewOBJExporter())
	return NewServer(process, zap.NewNop(), ":0"), archive
}

func multipartBody(t *testing.T, fields map[string]string, assetNames, scanNames []string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, name := range assetNames {
		part, err := writer.CreateFormFile("asset_files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("file content is never inspected"))
		require.NoError(t, err)
	}
	for _, name := range scanNames {
		part, err := writer.CreateFormFile("scan_files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("point cloud bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestServer_Health(t *testing.T) {
	server, _ := newTestServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])
}

func TestServer_ProcessMultipart(t *testing.T) {
	server, archive := newTestServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	body, contentType := multipartBody(t, map[string]string{
		"project_name":   "Harbor Mill",
		"description":    "Brick mill slated for selective deconstruction",
		"transport_plan": "rail and conveyor",
		"human_built":    "true",
		"hazard_profile": "flood + storm surge",
	}, []string{"plan.ifc", "section.dwg"}, []string{"sweep.e57"})

	resp, err := http.Post(ts.URL+"/api/process", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report entities.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "Harbor Mill", report.ProjectName)
	assert.NotEmpty(t, report.PiecePlans)
	assert.NotEmpty(t, report.CuttingInstructions)
	assert.Contains(t, report.AIEngineering, "unavailable")

	count, err := archive.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count, "processing must archive the report")
}

func TestServer_ProcessJSON(t *testing.T) {
	server, _ := newTestServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	submission := `{
		"project_name": "JSON Yard",
		"description": "Submitted without a form",
		"human_built": true,
		"asset_files": [{"name": "plan.ifc", "size_bytes": 2048}],
		"scan_files": []
	}`

	resp, err := http.Post(ts.URL+"/api/process", "application/json", strings.NewReader(submission))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report entities.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "JSON Yard", report.ProjectName)
}

func TestServer_ProcessValidation(t *testing.T) {
	server, _ := newTestServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	t.Run("missing required fields", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"project_name": "No Description"}, nil, nil)

		resp, err := http.Post(ts.URL+"/api/process", contentType, body)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed json body", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/process", "application/json", strings.NewReader(`{"project_name":`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/process")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestServer_ExportOBJ(t *testing.T) {
	server, _ := newTestServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	// Nothing processed yet
	resp, err := http.Post(ts.URL+"/api/export/obj", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, contentType := multipartBody(t, map[string]string{
		"project_name": "Export Yard",
		"description":  "Slab warehouse",
	}, []string{"plan.ifc"}, nil)
	resp, err = http.Post(ts.URL+"/api/process", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/api/export/obj", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename=pieces.obj", resp.Header.Get("Content-Disposition"))

	obj, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(obj), "#"), "OBJ export should start with the header comment")
	assert.Contains(t, string(obj), "o piece_1")
}

func TestServer_Reports(t *testing.T) {
	server, _ := newTestServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	for _, name := range []string{"First", "Second"} {
		body, contentType := multipartBody(t, map[string]string{
			"project_name": name,
			"description":  "listing fixture",
		}, nil, nil)
		resp, err := http.Post(ts.URL+"/api/process", contentType, body)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/api/reports?limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Reports []entities.ReportSummary `json:"reports"`
		Count   int                      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	assert.Equal(t, 1, listing.Count)
	require.Len(t, listing.Reports, 1)
	assert.Equal(t, "Second", listing.Reports[0].ProjectName, "newest report should come first")

	bad, err := http.Get(ts.URL + "/api/reports?limit=-3")
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestServer_CORSPreflight(t *testing.T) {
	server, _ := newTestServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/process", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, resp.StatusCode, "preflight should short-circuit before the method check")
}
