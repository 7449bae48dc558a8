package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/minesweeper/game/engine"
)

func TestManager_Validate(t *testing.T) {
	dir := t.TempDir()

	writeConfigFile(t, dir, "good", createValidConfig())

	dense := createValidConfig()
	dense.MineCount = 30
	writeConfigFile(t, dir, "dense", dense)

	fixed := &engine.GameConfig{
		Name:        "Fixed",
		Description: "Fixed layout",
		Size:        3,
		MineCount:   1,
		Seed:        7,
		Layout:      []string{"...", "...", "..*"},
	}
	writeConfigFile(t, dir, "fixed", fixed)

	bad := createValidConfig()
	bad.MineCount = 100
	writeConfigFile(t, dir, "bad", bad)

	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("size: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a preset"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	results, err := m.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	byFile := make(map[string]ValidationResult)
	var order []string
	for _, r := range results {
		byFile[r.File] = r
		order = append(order, r.File)
	}

	wantOrder := []string{"bad.json", "broken.yaml", "dense.json", "fixed.json", "good.json"}
	if strings.Join(order, ",") != strings.Join(wantOrder, ",") {
		t.Fatalf("results order = %v, want %v", order, wantOrder)
	}

	tests := []struct {
		file      string
		valid     bool
		noteMatch string
	}{
		{"good.json", true, ""},
		{"dense.json", true, "mine density"},
		{"fixed.json", true, "3BV 1"},
		{"bad.json", false, ""},
		{"broken.yaml", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			r := byFile[tt.file]
			if r.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (errors: %v)", r.Valid, tt.valid, r.Errors)
			}
			if !tt.valid && len(r.Errors) == 0 {
				t.Error("invalid result should carry errors")
			}
			if tt.noteMatch != "" && !strings.Contains(strings.Join(r.Notes, "\n"), tt.noteMatch) {
				t.Errorf("notes %v should mention %q", r.Notes, tt.noteMatch)
			}
		})
	}

	if notes := strings.Join(byFile["fixed.json"].Notes, "\n"); !strings.Contains(notes, "seed has no effect") {
		t.Errorf("fixed layout with seed should be noted, got %v", notes)
	}
}

func TestManager_Validate_MissingDir(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	results, err := m.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}
