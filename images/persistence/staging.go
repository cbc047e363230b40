package persistence

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/voxelkit/voxel/images/domain"
)

var _ domain.StagingStore = (*FileStagingStore)(nil)

// FileStagingStore keeps staged uploads on the local filesystem under one
// directory per variant. Filenames are derived solely from the image id plus
// the fixed ".jpg" extension; no caller-controlled path segments are used.
type FileStagingStore struct {
	root string
}

// NewFileStagingStore provisions the variant directories under root and
// returns the store. Provisioning happens here, once, not per Put.
func NewFileStagingStore(root string) (*FileStagingStore, error) {
	for _, v := range domain.Variants {
		if err := os.MkdirAll(filepath.Join(root, string(v)), 0755); err != nil {
			return nil, fmt.Errorf("failed to create staging area %s: %w", v, err)
		}
	}
	return &FileStagingStore{root: root}, nil
}

func (s *FileStagingStore) path(v domain.Variant, filename string) string {
	return filepath.Join(s.root, string(v), filename)
}

func (s *FileStagingStore) Put(id string, variant domain.Variant, data []byte) error {
	p := s.path(variant, domain.StagedFilename(id))
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("failed to write staged %s variant for %s: %w", variant, id, err)
	}
	return nil
}

func (s *FileStagingStore) Get(id string, variant domain.Variant) ([]byte, error) {
	data, err := os.ReadFile(s.path(variant, domain.StagedFilename(id)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: staged %s variant for %s", domain.ErrNotFound, variant, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read staged %s variant for %s: %w", variant, id, err)
	}
	return data, nil
}

// DeleteAll removes every staged variant for an id. Cleanup is advisory: a
// failed removal is logged and the remaining variants are still attempted.
func (s *FileStagingStore) DeleteAll(id string) {
	for _, v := range domain.Variants {
		err := os.Remove(s.path(v, domain.StagedFilename(id)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("id", id).Str("variant", string(v)).
				Msg("Failed to delete staged variant")
		}
	}
}

func (s *FileStagingStore) ListAll() ([]domain.StagedFile, error) {
	var files []domain.StagedFile
	for _, v := range domain.Variants {
		entries, err := os.ReadDir(filepath.Join(s.root, string(v)))
		if err != nil {
			return nil, fmt.Errorf("failed to list staging area %s: %w", v, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			files = append(files, domain.StagedFile{Variant: v, Filename: e.Name()})
		}
	}
	return files, nil
}

// Remove deletes a single staged file. A file that is already gone is treated
// as removed; promotion may have deleted it concurrently.
func (s *FileStagingStore) Remove(f domain.StagedFile) error {
	err := os.Remove(s.path(f.Variant, f.Filename))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove staged file %s/%s: %w", f.Variant, f.Filename, err)
	}
	return nil
}
