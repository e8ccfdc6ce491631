package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := DefaultAppConfig()
	cfg.DefaultGap = 4.0
	cfg.Theme = "dark"
	cfg.RecentProjects = []string{"/tmp/proj1.json", "/tmp/proj2.json"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultGap != 4.0 {
		t.Errorf("expected DefaultGap=4.0, got %f", loaded.DefaultGap)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if len(loaded.RecentProjects) != 2 {
		t.Errorf("expected 2 recent projects, got %d", len(loaded.RecentProjects))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := DefaultAppConfig()
	if cfg.DefaultSheetWidth != defaults.DefaultSheetWidth {
		t.Errorf("expected default sheet width %f, got %f", defaults.DefaultSheetWidth, cfg.DefaultSheetWidth)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected theme=system, got %s", cfg.Theme)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentProjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"default_sheet_width":1220,"theme":"light","recent_projects":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil after loading")
	}
}

func TestAddRecentProjectDedupesAndCaps(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.RecentProjects = []string{"a.json", "b.json"}

	cfg = AddRecentProject(cfg, "c.json", 2)
	if len(cfg.RecentProjects) != 2 {
		t.Fatalf("expected list capped at 2, got %v", cfg.RecentProjects)
	}
	if cfg.RecentProjects[0] != "c.json" {
		t.Errorf("expected most recent project first, got %v", cfg.RecentProjects)
	}

	cfg = AddRecentProject(cfg, "a.json", 5)
	if cfg.RecentProjects[0] != "a.json" {
		t.Errorf("expected re-added project moved to front, got %v", cfg.RecentProjects)
	}
	count := 0
	for _, p := range cfg.RecentProjects {
		if p == "a.json" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected no duplicate entries, got %v", cfg.RecentProjects)
	}
}
