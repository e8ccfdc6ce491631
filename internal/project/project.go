package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/nestcore/internal/engine"
	"github.com/piwi3910/nestcore/internal/part"
)

// fileVersion is bumped whenever the on-disk Project schema changes
// incompatibly.
const fileVersion = "1.0.0"

// Project is a saved nesting job: the part batch plus the engine settings
// it should be nested with, round-tripped as a single JSON file.
type Project struct {
	ID        string          `json:"id"`
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Name      string          `json:"name"`
	Config    engine.Config   `json:"config"`
	Templates []part.Template `json:"templates"`
}

// NewProject builds a Project ready to be saved, stamping CreatedAt with now
// and assigning it a fresh ID.
func NewProject(name string, cfg engine.Config, templates []part.Template, now time.Time) Project {
	return Project{
		ID:        uuid.NewString(),
		Version:   fileVersion,
		CreatedAt: now.UTC().Format(time.RFC3339),
		Name:      name,
		Config:    cfg,
		Templates: templates,
	}
}

// Save writes p to path as indented JSON, creating parent directories.
func Save(path string, p Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}

// Load reads a Project from path.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("read project file: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("parse project file: %w", err)
	}
	if p.Version == "" {
		return Project{}, fmt.Errorf("invalid project file: missing version")
	}
	return p, nil
}
