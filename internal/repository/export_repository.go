package repository

import (
	"context"
	"fmt"

	"github.com/ridwanfathin/invoice-builder-service/internal/export"
)

// RepositoryError represents an error that occurred within a repository
type RepositoryError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// ErrArtifactNotFound reports a lookup for an unknown artifact id
var ErrArtifactNotFound = fmt.Errorf("export artifact not found")

// ArtifactInfo is the stored metadata for one export artifact
type ArtifactInfo struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	PageCount   int    `json:"page_count"`
	SizeBytes   int64  `json:"size_bytes"`
	GeneratedAt string `json:"generated_at"`
}

// ExportRepository is the download staging area for assembled exports.
// It stores finished PDF artifacts so a completed export can be
// re-downloaded; the invoice document itself is never persisted.
type ExportRepository interface {
	// StoreArtifact stores an assembled export and returns its id
	StoreArtifact(ctx context.Context, artifact *export.Artifact) (string, error)

	// GetArtifact retrieves a stored artifact by id
	GetArtifact(ctx context.Context, id string) (*export.Artifact, error)

	// ListArtifacts lists stored artifact metadata, newest first
	ListArtifacts(ctx context.Context) ([]ArtifactInfo, error)
}
