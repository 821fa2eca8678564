// Package plugin discovers and runs action plugins: external executables that
// receive a JSON request on stdin when a letter is recognised and answer with
// a JSON response on stdout.
package plugin

import "encoding/json"

// ManifestFile is the manifest name looked up in every plugin directory.
const ManifestFile = "plugin.json"

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Supports reports whether the manifest lists action.
func (m Manifest) Supports(action string) bool {
	for _, a := range m.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Request is sent to a plugin for one recognised letter.
type Request struct {
	Action string          `json:"action"`
	Letter string          `json:"letter"`
	Score  float64         `json:"score"`
	Config json.RawMessage `json:"config,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is what a plugin writes back.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Binding ties a recognised letter to a plugin action.
type Binding struct {
	Label   string          `json:"letter" yaml:"letter"`
	Plugin  string          `json:"plugin" yaml:"plugin"`
	Action  string          `json:"action" yaml:"action"`
	Config  json.RawMessage `json:"config,omitempty" yaml:"-"`
	Enabled bool            `json:"enabled" yaml:"enabled"`
}
