package contract

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/maison/internal/api"
	"github.com/felixgeelhaar/maison/internal/errors"
)

const smallDoc = `openapi: 3.0.3
info:
  title: Partial
  version: 0.1.0
paths:
  /products:
    get:
      responses:
        '200':
          description: ok
  /products/{product}:
    parameters:
      - name: product
        in: path
        required: true
        schema:
          type: string
    get:
      responses:
        '200':
          description: ok
  /health:
    get:
      responses:
        '200':
          description: ok
`

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBundledDescribesEveryEndpoint(t *testing.T) {
	doc, err := Bundled()
	require.NoError(t, err)

	report := doc.Check(api.Endpoints())
	assert.True(t, report.OK(), "findings: %+v", report.Findings)
	assert.Equal(t, len(api.Endpoints()), report.Checked)
	assert.Equal(t, len(api.Endpoints()), report.Operations)
	assert.Empty(t, report.Findings)
}

func TestCheckReportsMissingPathAndMethod(t *testing.T) {
	doc, err := Load(writeDoc(t, smallDoc))
	require.NoError(t, err)

	endpoints := []api.Endpoint{
		{Name: "products.list", Method: http.MethodGet, Path: "/products"},
		{Name: "products.get", Method: http.MethodGet, Path: "/products/{id}"},
		{Name: "products.delete", Method: http.MethodDelete, Path: "/products/{id}"},
		{Name: "orders.create", Method: http.MethodPost, Path: "/orders"},
	}
	report := doc.Check(endpoints)
	assert.False(t, report.OK())

	byCode := map[string][]Finding{}
	for _, f := range report.Findings {
		byCode[f.Code] = append(byCode[f.Code], f)
	}
	require.Len(t, byCode[CodeMissingPath], 1)
	assert.Equal(t, "orders.create", byCode[CodeMissingPath][0].Endpoint)
	require.Len(t, byCode[CodeMissingMethod], 1)
	assert.Equal(t, "products.delete", byCode[CodeMissingMethod][0].Endpoint)
	require.Len(t, byCode[CodeUnusedOp], 1)
	assert.Equal(t, "/health", byCode[CodeUnusedOp][0].Path)
	assert.Equal(t, SeverityInfo, byCode[CodeUnusedOp][0].Severity)
}

func TestSummary(t *testing.T) {
	doc, err := Load(writeDoc(t, smallDoc))
	require.NoError(t, err)

	summary := doc.Summary()
	assert.Len(t, summary, 3)
	assert.Equal(t, []string{http.MethodGet}, summary["/products"])
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFileUnmarshal, errors.CodeOf(err))

	invalid := `openapi: 3.0.3
info:
  title: Broken
  version: 1.0.0
paths:
  /orders/{id}:
    get:
      responses:
        '200':
          description: ok
`
	_, err = Load(writeDoc(t, invalid))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAPIContract, errors.CodeOf(err))
}
