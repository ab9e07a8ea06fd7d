package service

import (
	"context"
	"log"

	"github.com/ridwanfathin/invoice-builder-service/internal/domain"
	"github.com/ridwanfathin/invoice-builder-service/internal/export"
	"github.com/ridwanfathin/invoice-builder-service/internal/render"
	"github.com/ridwanfathin/invoice-builder-service/internal/repository"
	"github.com/ridwanfathin/invoice-builder-service/internal/session"
)

// BuilderServicer defines the interface for the invoice builder service
type BuilderServicer interface {
	// Document returns a snapshot of the current invoice document
	Document() *domain.InvoiceDocument

	// Totals returns the freshly derived money breakdown
	Totals() domain.Totals

	// Apply executes one update operation against the document
	Apply(op session.Op) error

	// Preview renders the current document into its visual form
	Preview() (*render.VisualDocument, error)

	// Export runs the paginated export pipeline against a snapshot of
	// the current document
	Export(ctx context.Context) (*export.Artifact, error)

	// ListExports lists stored export artifacts
	ListExports(ctx context.Context) ([]repository.ArtifactInfo, error)

	// GetExport retrieves a stored export artifact by id
	GetExport(ctx context.Context, id string) (*export.Artifact, error)

	// SetRepository sets the repository used to stage export artifacts
	SetRepository(repo repository.ExportRepository)
}

// BuilderService orchestrates the session controller, renderer and
// export pipeline behind one interface
type BuilderService struct {
	controller *session.Controller
	renderer   *render.Renderer
	pipeline   *export.Pipeline
	repository repository.ExportRepository
}

// NewBuilderService creates the builder service around its collaborators
func NewBuilderService(controller *session.Controller, renderer *render.Renderer, pipeline *export.Pipeline) *BuilderService {
	return &BuilderService{
		controller: controller,
		renderer:   renderer,
		pipeline:   pipeline,
	}
}

// SetRepository sets the export artifact repository for the service
func (s *BuilderService) SetRepository(repo repository.ExportRepository) {
	s.repository = repo
}

// Document returns a snapshot of the current invoice document
func (s *BuilderService) Document() *domain.InvoiceDocument {
	return s.controller.Snapshot()
}

// Totals returns the freshly derived money breakdown
func (s *BuilderService) Totals() domain.Totals {
	return s.controller.Totals()
}

// Apply executes one update operation against the document
func (s *BuilderService) Apply(op session.Op) error {
	return s.controller.Apply(op)
}

// Preview renders the current document. The preview and the export use
// the same renderer and the same totals calculation, so both always
// show identical figures for the same document state.
func (s *BuilderService) Preview() (*render.VisualDocument, error) {
	doc := s.controller.Snapshot()
	totals := domain.ComputeTotals(doc.LineItems, doc.TaxRatePercent, doc.DiscountPercent)
	return s.renderer.Render(doc, totals)
}

// Export captures a snapshot of the document at the moment the export
// is triggered and runs it through the pipeline. Concurrent form edits
// cannot tear the captured frame, and a failed export leaves the
// document untouched.
func (s *BuilderService) Export(ctx context.Context) (*export.Artifact, error) {
	doc := s.controller.Snapshot()
	totals := domain.ComputeTotals(doc.LineItems, doc.TaxRatePercent, doc.DiscountPercent)

	visual, err := s.renderer.Render(doc, totals)
	if err != nil {
		return nil, err
	}

	artifact, err := s.pipeline.Export(ctx, visual, doc.Metadata.InvoiceNumber)
	if err != nil {
		return nil, err
	}

	// Stage the artifact for re-download if a repository is available
	if s.repository != nil {
		if _, err := s.repository.StoreArtifact(ctx, artifact); err != nil {
			// Log the error but continue; the caller still gets the file
			log.Printf("Error storing export artifact: %v", err)
		}
	}

	return artifact, nil
}

// ListExports lists stored export artifacts
func (s *BuilderService) ListExports(ctx context.Context) ([]repository.ArtifactInfo, error) {
	if s.repository == nil {
		return []repository.ArtifactInfo{}, nil
	}
	return s.repository.ListArtifacts(ctx)
}

// GetExport retrieves a stored export artifact by id
func (s *BuilderService) GetExport(ctx context.Context, id string) (*export.Artifact, error) {
	if s.repository == nil {
		return nil, &repository.RepositoryError{Op: "get_artifact", Err: repository.ErrArtifactNotFound}
	}
	return s.repository.GetArtifact(ctx, id)
}
