// Package filestore reads model artifacts from the local filesystem.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/twinrisk/twinrisk/internal/domain/model"
)

// ArtifactSource reads a serialized artifact from one file path.
type ArtifactSource struct {
	path string
}

// NewArtifactSource returns a source for path.
func NewArtifactSource(path string) *ArtifactSource {
	return &ArtifactSource{path: path}
}

// Sources returns one source per path, preserving order.
func Sources(paths []string) []*ArtifactSource {
	out := make([]*ArtifactSource, 0, len(paths))
	for _, p := range paths {
		out = append(out, NewArtifactSource(p))
	}
	return out
}

func (s *ArtifactSource) Name() string { return "file:" + s.path }

// Fetch reads the file. A missing file yields ErrArtifactNotFound.
func (s *ArtifactSource) Fetch(ctx context.Context) (*model.ArtifactRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", s.path, model.ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("reading artifact %s: %w", s.path, err)
	}

	return &model.ArtifactRecord{
		Payload:  payload,
		Origin:   model.OriginFile,
		Location: s.path,
	}, nil
}
