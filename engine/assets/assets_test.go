package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T, dir string) *AssetManager {
	t.Helper()
	am, err := NewAssetManager()
	if err != nil {
		t.Fatal(err)
	}
	am.shaderDir = dir
	t.Cleanup(func() { am.fsnotify.Close() })
	return am
}

func TestLoadShaderModule(t *testing.T) {
	dir := t.TempDir()

	valid := []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0} // two SPIR-V words
	if err := os.WriteFile(filepath.Join(dir, "ok.vert.spv"), valid, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "short.frag.spv"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "empty.frag.spv"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		module  string
		wantLen int
		wantErr bool
	}{
		{name: "valid module", module: "ok.vert", wantLen: 8},
		{name: "size not a word multiple", module: "short.frag", wantErr: true},
		{name: "empty file", module: "empty.frag", wantErr: true},
		{name: "missing file", module: "nope.vert", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			am := newTestManager(t, dir)
			code, err := am.LoadShaderModule(tt.module)
			if tt.wantErr {
				if err == nil {
					t.Error("want error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadShaderModule: %v", err)
			}
			if len(code) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(code), tt.wantLen)
			}
		})
	}
}
