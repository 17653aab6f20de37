// pkg/registry/schema.go
package registry

// Registry describes every HTTP endpoint the API exposes.
type Registry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Endpoints   []Endpoint `json:"endpoints"`
}

type Endpoint struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Method               string                 `json:"method"`
	Path                 string                 `json:"path"`
	Access               string                 `json:"access"` // public, user or admin
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema,omitempty"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Tags                 []string               `json:"tags"`
}

const (
	AccessPublic = "public"
	AccessUser   = "user"
	AccessAdmin  = "admin"
)
