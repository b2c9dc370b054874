// Package artifact persists model artifacts and serves the current one to
// concurrent readers.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Anurag9000/Gram-Connect/internal/domain/compat"
)

// Save writes the artifact next to path and renames it into place, so readers
// and watchers never see a partial file.
func Save(path string, a *compat.Artifact) (err error) {
	if a == nil {
		return ErrNilArtifact
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := a.Encode(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("install artifact: %w", err)
	}
	return nil
}

// Load reads and validates the artifact at path.
func Load(path string) (*compat.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	defer f.Close()

	a, err := compat.DecodeArtifact(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelUnavailable, path, err)
	}
	m, err := compat.NewModel(a)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelUnavailable, path, err)
	}
	return m, nil
}
