package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// writePlugin creates a plugin directory under dir with a manifest and an
// executable shell script, and returns the plugin directory.
func writePlugin(t *testing.T, dir string, manifest Manifest, script string) string {
	t.Helper()

	pluginDir := filepath.Join(dir, manifest.Name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	manifestBytes, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, ManifestFile), manifestBytes, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	if script != "" {
		if err := os.WriteFile(filepath.Join(pluginDir, manifest.Executable), []byte(script), 0755); err != nil {
			t.Fatalf("failed to write script: %v", err)
		}
	}

	return pluginDir
}

func TestPlugin_Handles(t *testing.T) {
	p := &Plugin{Manifest: Manifest{Labels: []string{"OK", "Peace"}}}

	tests := []struct {
		label string
		want  bool
	}{
		{"OK", true},
		{"Peace", true},
		{"Force", false},
		{"ok", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := p.Handles(tt.label); got != tt.want {
				t.Errorf("Handles(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}
