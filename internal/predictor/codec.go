package predictor

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/pricelab/carval/internal/common"
)

// Load reads an artifact from a zstd-compressed JSON file. A missing or
// unreadable file is fatal to the whole prediction capability; callers must
// not retry per request.
func Load(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", common.ErrArtifactUnavailable, path, err)
	}
	defer func() { _ = f.Close() }()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a zstd stream: %v", common.ErrArtifactUnavailable, path, err)
	}
	defer zr.Close()

	var artifact Artifact
	if err := json.NewDecoder(zr).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", common.ErrArtifactUnavailable, path, err)
	}

	if err := artifact.validate(); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// Save writes the artifact as zstd-compressed JSON. Training happens
// elsewhere; this exists so artifacts can be re-encoded and so tests can
// fabricate small models.
func (a *Artifact) Save(path string) error {
	if err := a.validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create artifact file: %w", err)
	}

	zw, err := zstd.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}

	if err := json.NewEncoder(zw).Encode(a); err != nil {
		_ = zw.Close()
		_ = f.Close()
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush artifact: %w", err)
	}
	return f.Close()
}
