// Package predictor loads trained pricing model artifacts from disk and
// exposes them as predictors.
//
// An artifact is an opaque regression model trained elsewhere. Two kinds
// exist. A matrix artifact consumes an already-encoded feature row and
// persists the exact column order it was trained with, so callers align
// against that order instead of re-deriving it. A pipeline artifact carries
// its own encoder vocabulary and accepts raw fields, keeping the encoding
// logic co-located with the trained weights.
package predictor

import (
	"fmt"

	"github.com/pricelab/carval/internal/common"
	"github.com/pricelab/carval/internal/vocab"
)

// FormatVersion is the artifact file format this build reads and writes.
const FormatVersion = 1

// Kind discriminates the two artifact flavors.
type Kind string

// Artifact kinds.
const (
	// KindMatrix consumes an aligned numeric row in the persisted column order.
	KindMatrix Kind = "matrix"
	// KindPipeline consumes raw fields and encodes them internally.
	KindPipeline Kind = "pipeline"
)

// Artifact is a trained pricing model as persisted on disk: a linear form
// over the encoded feature columns, optionally preceded by an internal
// encoder for pipeline artifacts.
type Artifact struct {
	Weights       map[string]float64 `json:"weights"`
	Encoder       *vocab.Vocabulary  `json:"encoder,omitempty"`
	Kind          Kind               `json:"kind"`
	Columns       []string           `json:"columns"`
	FormatVersion int                `json:"format_version"`
	Intercept     float64            `json:"intercept"`
}

// Schema returns the exact column order the artifact was trained with, or
// nil for pipeline artifacts, which own their encoding and expose no
// external schema.
func (a *Artifact) Schema() []string {
	if a.Kind != KindMatrix {
		return nil
	}
	out := make([]string, len(a.Columns))
	copy(out, a.Columns)
	return out
}

// Vocabulary returns the encoder vocabulary for pipeline artifacts, nil
// otherwise.
func (a *Artifact) Vocabulary() *vocab.Vocabulary {
	return a.Encoder
}

// validate checks structural integrity after decode. A well-formed file with
// an incoherent model is as unusable as a missing one.
func (a *Artifact) validate() error {
	if a.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: unsupported format version %d", common.ErrArtifactUnavailable, a.FormatVersion)
	}
	switch a.Kind {
	case KindMatrix, KindPipeline:
	default:
		return fmt.Errorf("%w: unknown artifact kind %q", common.ErrArtifactUnavailable, a.Kind)
	}
	if len(a.Columns) == 0 {
		return fmt.Errorf("%w: artifact has no columns", common.ErrArtifactUnavailable)
	}
	for _, col := range a.Columns {
		if _, ok := a.Weights[col]; !ok {
			return fmt.Errorf("%w: no weight for column %q", common.ErrArtifactUnavailable, col)
		}
	}
	if a.Kind == KindPipeline {
		if a.Encoder == nil {
			return fmt.Errorf("%w: pipeline artifact has no encoder vocabulary", common.ErrArtifactUnavailable)
		}
		if err := a.Encoder.Validate(); err != nil {
			return fmt.Errorf("%w: pipeline encoder: %v", common.ErrArtifactUnavailable, err)
		}
	}
	return nil
}
