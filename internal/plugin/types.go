// Package plugin runs external programs when a hand sign is recognized.
//
// A plugin is a directory holding a plugin.json manifest and an executable.
// The executable receives one JSON Request on stdin and answers with one
// JSON Response on stdout.
package plugin

import (
	"encoding/json"
	"slices"
)

// Manifest describes a plugin and the sign labels it reacts to.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Labels      []string        `json:"labels"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Request is sent to a plugin when one of its labels is recognized.
type Request struct {
	Label      string          `json:"label"`
	Key        string          `json:"key"`
	Handedness string          `json:"handedness"`
	Seq        uint64          `json:"seq"`
	Config     json.RawMessage `json:"config,omitempty"`
}

// Response is the answer of a plugin execution.
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

// Handles reports whether the plugin subscribes to label.
func (p *Plugin) Handles(label string) bool {
	return slices.Contains(p.Manifest.Labels, label)
}
