// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

//go:embed endpoints.json
var embedded []byte

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// LoadRegistry reads a registry file from disk.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Parse(embedded)
	})
	return defaultReg, defaultErr
}

// Find looks an endpoint up by id.
func (r *Registry) Find(id string) (*Endpoint, bool) {
	for i := range r.Endpoints {
		if r.Endpoints[i].ID == id {
			return &r.Endpoints[i], true
		}
	}
	return nil, false
}

// SchemaDocument renders the endpoint's input schema as JSON text. It reports
// false when the endpoint takes no body.
func (e *Endpoint) SchemaDocument() (string, bool, error) {
	if len(e.InputSchema) == 0 {
		return "", false, nil
	}
	doc, err := json.Marshal(e.InputSchema)
	if err != nil {
		return "", false, fmt.Errorf("marshal schema for %s: %w", e.ID, err)
	}
	return string(doc), true, nil
}

// MustInputSchema returns the input schema of an endpoint in the embedded
// registry. It panics if the endpoint or its schema is missing, so it belongs
// in handler constructors only.
func MustInputSchema(id string) string {
	reg, err := Default()
	if err != nil {
		panic(err)
	}
	ep, ok := reg.Find(id)
	if !ok {
		panic(fmt.Sprintf("registry: unknown endpoint %q", id))
	}
	doc, ok, err := ep.SchemaDocument()
	if err != nil {
		panic(err)
	}
	if !ok {
		panic(fmt.Sprintf("registry: endpoint %q has no input schema", id))
	}
	return doc
}

// Check verifies ids are unique and the fields every endpoint needs are set.
func (r *Registry) Check() error {
	if len(r.Endpoints) == 0 {
		return fmt.Errorf("registry contains no endpoints")
	}
	ids := make(map[string]bool)
	routes := make(map[string]string)
	for _, ep := range r.Endpoints {
		if ep.ID == "" {
			return fmt.Errorf("endpoint missing required field: id")
		}
		if ids[ep.ID] {
			return fmt.Errorf("duplicate endpoint id: %s", ep.ID)
		}
		ids[ep.ID] = true

		if ep.DisplayName == "" {
			return fmt.Errorf("endpoint %s missing required field: displayName", ep.ID)
		}
		if ep.Method == "" || ep.Path == "" {
			return fmt.Errorf("endpoint %s missing method or path", ep.ID)
		}
		switch ep.Access {
		case AccessPublic, AccessUser, AccessAdmin:
		default:
			return fmt.Errorf("endpoint %s has unknown access %q", ep.ID, ep.Access)
		}
		key := ep.Method + " " + ep.Path
		if other, dup := routes[key]; dup {
			return fmt.Errorf("endpoints %s and %s share route %s", other, ep.ID, key)
		}
		routes[key] = ep.ID
	}
	return nil
}
