// cmd/tools/handler-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"realestate-marketplace/pkg/registry"
)

// HandlerData holds data for templates
type HandlerData struct {
	Name        string
	PackageName string
	EndpointID  string
	Method      string
	Route       string
	Access      string
	Category    string
	Description string
	InputFields string
	Required    []string
	ErrorCodes  []string
	HasBody     bool
}

// schemaProperties extracts the properties object from a JSON schema.
func schemaProperties(schema map[string]interface{}) map[string]interface{} {
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		return props
	}
	return map[string]interface{}{}
}

func schemaRequired(schema map[string]interface{}) []string {
	raw, _ := schema["required"].([]interface{})
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(jsonType interface{}) string {
	jt, _ := jsonType.(string)
	switch jt {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// generateStructFields renders one field per schema property, in name order.
func generateStructFields(properties map[string]interface{}) string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []string
	for _, name := range names {
		details, ok := properties[name].(map[string]interface{})
		if !ok {
			continue
		}
		field := fmt.Sprintf("\t%s %s `json:\"%s\"`", goFieldName(name), goTypeFromJSONType(details["type"]), name)
		if desc, ok := details["description"].(string); ok && desc != "" {
			field += " // " + desc
		}
		fields = append(fields, field)
	}
	return strings.Join(fields, "\n")
}

// goFieldName turns snake_case or camelCase json names into exported Go names.
func goFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	for i, p := range parts {
		switch strings.ToLower(p) {
		case "id":
			parts[i] = "ID"
		case "url":
			parts[i] = "URL"
		default:
			parts[i] = upperFirst(p)
		}
	}
	return strings.Join(parts, "")
}

// upperFirst makes the first character uppercase
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// routeSuffix strips the API prefix so the route mounts under it.
func routeSuffix(path string) string {
	return strings.TrimPrefix(path, "/api/v1")
}

func dataFor(ep *registry.Endpoint) HandlerData {
	return HandlerData{
		Name:        ep.DisplayName,
		PackageName: strings.ReplaceAll(ep.ID, "-", ""),
		EndpointID:  ep.ID,
		Method:      ep.Method,
		Route:       routeSuffix(ep.Path),
		Access:      ep.Access,
		Category:    ep.Category,
		Description: ep.Description,
		InputFields: generateStructFields(schemaProperties(ep.InputSchema)),
		Required:    schemaRequired(ep.InputSchema),
		ErrorCodes:  ep.ErrorCodes,
		HasBody:     len(ep.InputSchema) > 0,
	}
}

const configTemplate = `// internal/handlers/{{ .Category }}/{{ .EndpointID }}/config.go
package {{ .PackageName }}

import (
	"time"

	"realestate-marketplace/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	hc := config.GetHandlerConfig(appCfg, EndpointID)
	return &Config{Timeout: config.GetDuration(hc.Timeout)}
}
`

const modelsTemplate = `// internal/handlers/{{ .Category }}/{{ .EndpointID }}/models.go
package {{ .PackageName }}

type Input struct {
{{- if eq .Access "user" "admin" }}
	UserID string ` + "`json:\"-\"`" + `
{{- end }}
{{ .InputFields }}
}

type Output struct {
	Success bool ` + "`json:\"success\"`" + `
}
`

const handlerTemplate = `// internal/handlers/{{ .Category }}/{{ .EndpointID }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"errors"
	"net/http"

	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
)

const (
	EndpointID = "{{ .EndpointID }}"
	Route      = "{{ .Route }}"
)

var ErrNilInput = errors.New("input cannot be nil")

// Handler serves {{ .Method }} {{ .Route }}: {{ .Description }}
type Handler struct {
	config *Config
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"endpoint": EndpointID}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var input Input
{{- if .HasBody }}
	if err := httpx.DecodeJSON(r, &input); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
{{- end }}
{{- if eq .Access "user" "admin" }}
	input.UserID = httpx.UserIDFromRequest(r)
{{- end }}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
{{- if eq .Access "user" "admin" }}
	if input.UserID == "" {
		return nil, apperrors.NewUnauthorizedError()
	}
{{- end }}
	return &Output{Success: true}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const testTemplate = `// internal/handlers/{{ .Category }}/{{ .EndpointID }}/handler_test.go
package {{ .PackageName }}

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-marketplace/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 3 * time.Second}
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}

// ==========================
// HTTP
// ==========================

func TestHandler_ServeHTTP(t *testing.T) {
	h := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	req := httptest.NewRequest(http.Method{{ methodConst .Method }}, Route, strings.NewReader("{}"))
{{- if eq .Access "user" "admin" }}
	req.Header.Set("X-User-Id", "u1")
{{- end }}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}
`

// methodConst maps GET to Get for the net/http constant names.
func methodConst(m string) string {
	if m == "" {
		return "Get"
	}
	return upperFirst(strings.ToLower(m))
}

func main() {
	endpoint := flag.String("endpoint", "", "Endpoint ID from the registry (e.g., list-properties)")
	outputDir := flag.String("output", "./internal/handlers/", "Root directory for generated handler packages")
	registryPath := flag.String("registry", "pkg/registry/endpoints.json", "Path to the endpoint registry JSON file")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *endpoint == "" {
		fmt.Println("Usage: handler-generator -endpoint <id> [-output <dir>] [-registry <path>] [-force]")
		fmt.Println("\nExample:")
		fmt.Println("  go run ./cmd/tools/handler-generator -endpoint list-properties")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}
	ep, ok := reg.Find(*endpoint)
	if !ok {
		fmt.Printf("Endpoint '%s' not found in registry %s\n", *endpoint, *registryPath)
		os.Exit(1)
	}

	data := dataFor(ep)
	dir := filepath.Join(*outputDir, data.Category, data.EndpointID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Printf("Error creating directory %s: %v\n", dir, err)
		os.Exit(1)
	}

	funcMap := template.FuncMap{"methodConst": methodConst}
	files := []struct {
		name string
		tmpl string
	}{
		{"config.go", configTemplate},
		{"models.go", modelsTemplate},
		{"handler.go", handlerTemplate},
		{"handler_test.go", testTemplate},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err == nil && !*force {
			fmt.Printf("skip %s (exists; use -force to overwrite)\n", path)
			continue
		}
		if err := render(path, f.tmpl, funcMap, data); err != nil {
			fmt.Printf("Error generating %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
	}

	fmt.Printf("\nNext: add %q to configs/config.yaml and mount the handler in internal/server/router.go\n", data.EndpointID)
}

func render(path, text string, funcs template.FuncMap, data HandlerData) error {
	tmpl, err := template.New(filepath.Base(path)).Funcs(funcs).Parse(text)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return tmpl.Execute(file, data)
}
