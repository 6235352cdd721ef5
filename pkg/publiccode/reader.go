package publiccode

import (
	"context"
	"fmt"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/search"
)

// MaxManifestBytes caps the manifest download.
const MaxManifestBytes = 1 << 20

// Source fetches raw repository files; *github.Client implements it.
type Source interface {
	RawFile(ctx context.Context, owner, name, branch, path string, limit int64) (string, error)
}

// Reader fetches and parses manifests.
type Reader struct {
	source  Source
	details search.DetailResolver
}

// NewReader creates a reader. details supplies the default branch when the
// caller passes none; it may be nil.
func NewReader(source Source, details search.DetailResolver) *Reader {
	return &Reader{source: source, details: details}
}

// Read fetches path from repositoryID at branch and parses it. An empty
// path reads the root manifest; an empty branch uses the repository's
// default branch, or "main" when that is unknown.
func (r *Reader) Read(ctx context.Context, repositoryID, path, branch string) (*Manifest, error) {
	owner, name, err := perrors.ParseRepoID(repositoryID)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = FileName
	}
	if err := perrors.ValidatePath(path); err != nil {
		return nil, err
	}
	if branch == "" {
		branch = r.defaultBranch(ctx, repositoryID)
	}

	text, err := r.source.RawFile(ctx, owner, name, branch, path, MaxManifestBytes)
	if err != nil {
		return nil, err
	}
	m, err := Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%s@%s:%s: %w", repositoryID, branch, path, err)
	}
	return m, nil
}

func (r *Reader) defaultBranch(ctx context.Context, repositoryID string) string {
	if r.details != nil {
		if d, ok := r.details.ResolveDetail(ctx, repositoryID); ok && d.DefaultBranch != "" {
			return d.DefaultBranch
		}
	}
	return "main"
}
