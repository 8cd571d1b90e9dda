package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// FileStore keeps a workspace in a single YAML file
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and validates the workspace file
func (s *FileStore) Load(ctx context.Context) (*Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}

	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse workspace file: %w", err)
	}

	if err := Validate(&ws); err != nil {
		return nil, err
	}

	return &ws, nil
}

// Save validates the workspace and replaces the file. The new content is
// written to a temporary file first so a failed write leaves the old file intact.
func (s *FileStore) Save(ctx context.Context, ws *Workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := Validate(ws); err != nil {
		return err
	}

	data, err := yaml.Marshal(ws)
	if err != nil {
		return fmt.Errorf("failed to encode workspace: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary workspace file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write workspace file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write workspace file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace workspace file: %w", err)
	}
	return nil
}

// Validate checks the struct tags and that every grid matches the workspace posts
func Validate(ws *Workspace) error {
	if err := validate.Struct(ws); err != nil {
		return fmt.Errorf("workspace validation failed: %w", err)
	}

	var errs []error
	for i := range ws.History {
		if !slices.Equal(ws.History[i].PostNames, ws.Posts) {
			errs = append(errs, fmt.Errorf("history[%d] posts %v do not match workspace posts %v", i, ws.History[i].PostNames, ws.Posts))
		}
	}
	if ws.Current != nil {
		if len(ws.Current.Rows) > 0 && !slices.Equal(ws.Current.PostNames, ws.Posts) {
			errs = append(errs, fmt.Errorf("current posts %v do not match workspace posts %v", ws.Current.PostNames, ws.Posts))
		}
		if len(ws.Current.Rows) > 0 && (ws.Current.Year != ws.Year || ws.Current.Month != ws.Month) {
			errs = append(errs, fmt.Errorf("current grid covers %d-%02d, workspace is at %d-%02d",
				ws.Current.Year, int(ws.Current.Month), ws.Year, int(ws.Month)))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("workspace validation failed: %w", err)
	}
	return nil
}
