// internal/handlers/admin/settings/models.go
package settings

import "encoding/json"

type ListOutput struct {
	Settings map[string]json.RawMessage `json:"settings"`
}

type UpdateInput struct {
	AdminID  string                     `json:"-"`
	Settings map[string]json.RawMessage `json:"settings"`
}

type UpdateOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
