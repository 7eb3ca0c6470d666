// Package contract checks the client's endpoint table against an OpenAPI
// description of the storefront API.
package contract

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/felixgeelhaar/maison/internal/api"
	"github.com/felixgeelhaar/maison/internal/errors"
)

//go:embed openapi.yaml
var bundled []byte

// Finding codes.
const (
	CodeMissingPath   = "MISSING_API_PATH"
	CodeMissingMethod = "MISSING_API_METHOD"
	CodeUnusedOp      = "UNUSED_API_OPERATION"
)

// Severity levels.
const (
	SeverityError = "error"
	SeverityInfo  = "info"
)

// Finding is one mismatch between the client and the document.
type Finding struct {
	Code     string `json:"code" yaml:"code"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Method   string `json:"method" yaml:"method"`
	Path     string `json:"path" yaml:"path"`
	Message  string `json:"message" yaml:"message"`
	Severity string `json:"severity" yaml:"severity"`
}

// Report is the result of a check.
type Report struct {
	Source     string    `json:"source" yaml:"source"`
	Checked    int       `json:"checked" yaml:"checked"`
	Operations int       `json:"operations" yaml:"operations"`
	Findings   []Finding `json:"findings" yaml:"findings"`
}

// OK reports whether no error-level finding was recorded.
func (r Report) OK() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Document wraps a validated OpenAPI document.
type Document struct {
	doc    *openapi3.T
	source string
}

// Bundled returns the API description shipped with the binary.
func Bundled() (*Document, error) {
	return parse(bundled, "bundled")
}

// Load reads and validates an OpenAPI document from path.
func Load(path string) (*Document, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, errors.NewFileUnmarshalError(path, "OpenAPI", err)
	}
	return validated(doc, path)
}

func parse(data []byte, source string) (*Document, error) {
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, errors.NewFileUnmarshalError(source, "OpenAPI", err)
	}
	return validated(doc, source)
}

func validated(doc *openapi3.T, source string) (*Document, error) {
	if err := doc.Validate(context.Background()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIContract, "invalid OpenAPI document "+source, err)
	}
	return &Document{doc: doc, source: source}, nil
}

// Source names where the document came from.
func (d *Document) Source() string {
	return d.source
}

// Check matches every endpoint against the document. Operations in the
// document that no endpoint calls are reported at info level.
func (d *Document) Check(endpoints []api.Endpoint) Report {
	report := Report{Source: d.source, Checked: len(endpoints)}
	used := make(map[string]bool)

	for _, ep := range endpoints {
		method := strings.ToUpper(ep.Method)
		tmpl, item := d.find(ep.Path)
		if item == nil {
			report.Findings = append(report.Findings, Finding{
				Code:     CodeMissingPath,
				Endpoint: ep.Name,
				Method:   method,
				Path:     ep.Path,
				Message:  fmt.Sprintf("path not described: %s %s", method, ep.Path),
				Severity: SeverityError,
			})
			continue
		}
		if item.GetOperation(method) == nil {
			report.Findings = append(report.Findings, Finding{
				Code:     CodeMissingMethod,
				Endpoint: ep.Name,
				Method:   method,
				Path:     ep.Path,
				Message:  fmt.Sprintf("method not described: %s %s", method, ep.Path),
				Severity: SeverityError,
			})
			continue
		}
		used[method+" "+tmpl] = true
	}

	summary := d.Summary()
	paths := make([]string, 0, len(summary))
	for p := range summary {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		for _, m := range summary[p] {
			report.Operations++
			if used[m+" "+p] {
				continue
			}
			report.Findings = append(report.Findings, Finding{
				Code:     CodeUnusedOp,
				Method:   m,
				Path:     p,
				Message:  fmt.Sprintf("operation not called by the client: %s %s", m, p),
				Severity: SeverityInfo,
			})
		}
	}
	return report
}

var methods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions,
}

// Summary maps each documented path to its methods.
func (d *Document) Summary() map[string][]string {
	summary := make(map[string][]string)
	if d.doc.Paths == nil {
		return summary
	}
	for path, item := range d.doc.Paths.Map() {
		var ms []string
		for _, m := range methods {
			if item.GetOperation(m) != nil {
				ms = append(ms, m)
			}
		}
		if len(ms) > 0 {
			summary[path] = ms
		}
	}
	return summary
}

// find resolves path to its documented template, tolerating differently
// named parameters.
func (d *Document) find(path string) (string, *openapi3.PathItem) {
	if d.doc.Paths == nil {
		return "", nil
	}
	if item := d.doc.Paths.Value(path); item != nil {
		return path, item
	}

	want := segments(path)
	for tmpl, item := range d.doc.Paths.Map() {
		have := segments(tmpl)
		if len(have) != len(want) {
			continue
		}
		match := true
		for i := range want {
			if isParam(want[i]) && isParam(have[i]) {
				continue
			}
			if want[i] != have[i] {
				match = false
				break
			}
		}
		if match {
			return tmpl, item
		}
	}
	return "", nil
}

func segments(path string) []string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return strings.Split(strings.Trim(path, "/"), "/")
}

func isParam(seg string) bool {
	return strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}
