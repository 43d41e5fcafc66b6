// Package seed loads reference data from YAML and writes it to the database
// at startup.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/dalemusser/resourcehub/internal/app/system/normalize"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default_categories.yaml
var defaultCategories []byte

// File is the on-disk seed format.
type File struct {
	Categories []string `yaml:"categories"`
}

// Parse decodes seed YAML, dropping blank and repeated (case-insensitive)
// category names.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	seen := make(map[string]bool, len(f.Categories))
	out := f.Categories[:0]
	for _, name := range f.Categories {
		name = normalize.Name(name)
		key := normalize.Key(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	f.Categories = out
	return &f, nil
}

// Load reads the seed file at path. An empty path or a missing file yields
// the built-in defaults.
func Load(path string) (*File, error) {
	if path == "" {
		return Parse(defaultCategories)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Parse(defaultCategories)
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// CategoryUpserter creates a category unless one with the same name exists.
type CategoryUpserter interface {
	UpsertByName(ctx context.Context, name string) (bool, error)
}

// Categories ensures every seeded category exists and returns how many were
// created.
func Categories(ctx context.Context, store CategoryUpserter, f *File, logger *zap.Logger) (int, error) {
	created := 0
	for _, name := range f.Categories {
		inserted, err := store.UpsertByName(ctx, name)
		if err != nil {
			return created, fmt.Errorf("seed category %q: %w", name, err)
		}
		if inserted {
			created++
		}
	}
	logger.Info("categories seeded",
		zap.Int("declared", len(f.Categories)),
		zap.Int("created", created))
	return created, nil
}
