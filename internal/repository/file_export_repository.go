package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ridwanfathin/invoice-builder-service/internal/export"
)

// FileExportRepository stores export artifacts on the local filesystem:
// one PDF plus one JSON metadata sidecar per artifact, keyed by uuid.
type FileExportRepository struct {
	baseDir string
	mutex   sync.RWMutex
}

// NewFileExportRepository creates a file-based export repository
func NewFileExportRepository(baseDir string) (*FileExportRepository, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, &RepositoryError{
			Op:  "create_repository",
			Err: fmt.Errorf("failed to create base directory: %w", err),
		}
	}
	return &FileExportRepository{baseDir: baseDir}, nil
}

func (r *FileExportRepository) pdfPath(id string) string {
	return filepath.Join(r.baseDir, id+".pdf")
}

func (r *FileExportRepository) metaPath(id string) string {
	return filepath.Join(r.baseDir, id+".json")
}

// StoreArtifact writes the artifact's PDF and metadata to disk and
// returns the generated artifact id
func (r *FileExportRepository) StoreArtifact(ctx context.Context, artifact *export.Artifact) (string, error) {
	select {
	case <-ctx.Done():
		return "", &RepositoryError{Op: "store_artifact", Err: ctx.Err()}
	default:
	}

	if artifact == nil || len(artifact.Data) == 0 {
		return "", &RepositoryError{Op: "store_artifact", Err: fmt.Errorf("empty artifact")}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	id := uuid.New().String()

	if err := os.WriteFile(r.pdfPath(id), artifact.Data, 0644); err != nil {
		return "", &RepositoryError{Op: "store_artifact", Err: fmt.Errorf("failed to write PDF: %w", err)}
	}

	info := ArtifactInfo{
		ID:          id,
		Filename:    artifact.Filename,
		PageCount:   artifact.PageCount,
		SizeBytes:   int64(len(artifact.Data)),
		GeneratedAt: artifact.GeneratedAt.Format(time.RFC3339),
	}
	meta, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", &RepositoryError{Op: "store_artifact", Err: fmt.Errorf("failed to encode metadata: %w", err)}
	}
	if err := os.WriteFile(r.metaPath(id), meta, 0644); err != nil {
		return "", &RepositoryError{Op: "store_artifact", Err: fmt.Errorf("failed to write metadata: %w", err)}
	}

	return id, nil
}

// GetArtifact reads one stored artifact back
func (r *FileExportRepository) GetArtifact(ctx context.Context, id string) (*export.Artifact, error) {
	select {
	case <-ctx.Done():
		return nil, &RepositoryError{Op: "get_artifact", Err: ctx.Err()}
	default:
	}

	// Reject ids that could escape the base directory
	if id == "" || id != filepath.Base(id) {
		return nil, &RepositoryError{Op: "get_artifact", Err: ErrArtifactNotFound}
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	meta, err := os.ReadFile(r.metaPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &RepositoryError{Op: "get_artifact", Err: ErrArtifactNotFound}
		}
		return nil, &RepositoryError{Op: "get_artifact", Err: err}
	}

	var info ArtifactInfo
	if err := json.Unmarshal(meta, &info); err != nil {
		return nil, &RepositoryError{Op: "get_artifact", Err: fmt.Errorf("corrupt metadata: %w", err)}
	}

	data, err := os.ReadFile(r.pdfPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &RepositoryError{Op: "get_artifact", Err: ErrArtifactNotFound}
		}
		return nil, &RepositoryError{Op: "get_artifact", Err: err}
	}

	generatedAt, _ := time.Parse(time.RFC3339, info.GeneratedAt)
	return &export.Artifact{
		Filename:    info.Filename,
		Data:        data,
		PageCount:   info.PageCount,
		GeneratedAt: generatedAt,
	}, nil
}

// ListArtifacts returns metadata for all stored artifacts, newest first
func (r *FileExportRepository) ListArtifacts(ctx context.Context) ([]ArtifactInfo, error) {
	select {
	case <-ctx.Done():
		return nil, &RepositoryError{Op: "list_artifacts", Err: ctx.Err()}
	default:
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, &RepositoryError{Op: "list_artifacts", Err: err}
	}

	infos := make([]ArtifactInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		meta, err := os.ReadFile(filepath.Join(r.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var info ArtifactInfo
		if err := json.Unmarshal(meta, &info); err != nil {
			continue
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].GeneratedAt > infos[j].GeneratedAt
	})

	return infos, nil
}
