// Package export turns a rendered visual document into a paginated,
// downloadable PDF. The flow is an explicit state machine:
//
//	idle -> capturing -> paginating -> assembled -> (success | failure)
//
// capturing rasterizes the document at fixed width and full content
// height, paginating slices the tall bitmap into consecutive
// page-proportioned segments, assembled concatenates the slices into
// one PDF. A failure at any stage aborts the run, produces no partial
// file and never touches form state.
package export

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/ridwanfathin/invoice-builder-service/internal/imageutil"
	"github.com/ridwanfathin/invoice-builder-service/internal/render"
)

// Stage identifies a step of the export state machine
type Stage string

const (
	StageIdle       Stage = "idle"
	StageCapturing  Stage = "capturing"
	StagePaginating Stage = "paginating"
	StageAssembled  Stage = "assembled"
)

// ExportError represents a failure of one pipeline stage
type ExportError struct {
	// Stage is the pipeline stage that failed
	Stage Stage

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("export %s", e.Stage)
}

// Unwrap returns the underlying error
func (e *ExportError) Unwrap() error {
	return e.Err
}

// CaptureEngine rasterizes a visual document into a single bitmap at
// the document's fixed width and full content height. Implementations
// must wait for layout to settle before capturing so a partially
// laid-out frame is never observed.
type CaptureEngine interface {
	Capture(ctx context.Context, doc *render.VisualDocument) (image.Image, error)
}

// PageGeometry describes the output page in millimeters
type PageGeometry struct {
	WidthMM  float64
	HeightMM float64
}

// A4Portrait is the default output page geometry
func A4Portrait() PageGeometry {
	return PageGeometry{WidthMM: 210, HeightMM: 297}
}

// sliceHeightPx converts the page height into bitmap pixels for a
// bitmap of the given width. Truncating keeps each slice within one
// output page.
func (g PageGeometry) sliceHeightPx(bitmapWidth int) int {
	h := int(float64(bitmapWidth) * g.HeightMM / g.WidthMM)
	if h < 1 {
		h = 1
	}
	return h
}

// Artifact is one assembled export: the PDF bytes plus the metadata
// the download surface needs
type Artifact struct {
	Filename    string    `json:"filename"`
	Data        []byte    `json:"-"`
	PageCount   int       `json:"page_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Pipeline runs exports. It has no shared mutable state beyond the
// worker queue, so independent callers may export concurrently; the
// queue bounds how many captures run at once.
type Pipeline struct {
	engine      CaptureEngine
	geometry    PageGeometry
	workerQueue chan struct{}
	observer    func(Stage)
}

// NewPipeline creates an export pipeline around a capture engine
func NewPipeline(engine CaptureEngine, maxWorkers int) *Pipeline {
	if maxWorkers <= 0 {
		maxWorkers = 2 // headless captures are expensive
	}
	return &Pipeline{
		engine:      engine,
		geometry:    A4Portrait(),
		workerQueue: make(chan struct{}, maxWorkers),
	}
}

// SetStageObserver registers a callback invoked on every stage
// transition. The callback must be safe for concurrent use when
// exports run in parallel.
func (p *Pipeline) SetStageObserver(fn func(Stage)) {
	p.observer = fn
}

func (p *Pipeline) enter(stage Stage) {
	if p.observer != nil {
		p.observer(stage)
	}
}

// Export runs one full capture-slice-assemble cycle for the given
// visual document. Each call is single-shot: a second concurrent call
// is an independent run with its own rasterization.
func (p *Pipeline) Export(ctx context.Context, doc *render.VisualDocument, invoiceNumber string) (*Artifact, error) {
	if doc == nil || doc.HTML == "" {
		return nil, &ExportError{Stage: StageCapturing, Err: fmt.Errorf("no rendered document to capture")}
	}

	// Acquire a worker from the pool
	select {
	case p.workerQueue <- struct{}{}:
		defer func() {
			<-p.workerQueue
		}()
	case <-ctx.Done():
		return nil, &ExportError{Stage: StageIdle, Err: ctx.Err()}
	}

	p.enter(StageCapturing)
	bitmap, err := p.engine.Capture(ctx, doc)
	if err != nil {
		return nil, &ExportError{Stage: StageCapturing, Err: err}
	}
	if bitmap == nil || bitmap.Bounds().Dx() == 0 || bitmap.Bounds().Dy() == 0 {
		return nil, &ExportError{Stage: StageCapturing, Err: fmt.Errorf("capture produced zero-size content")}
	}

	// Captures taken at a higher device scale are normalized to at
	// most twice the layout width before slicing
	maxWidth := doc.PageWidthPx * 2
	if bitmap.Bounds().Dx() > maxWidth {
		bitmap, err = imageutil.ScaleToWidth(bitmap, maxWidth)
		if err != nil {
			return nil, &ExportError{Stage: StageCapturing, Err: err}
		}
	}

	p.enter(StagePaginating)
	pageHeight := p.geometry.sliceHeightPx(bitmap.Bounds().Dx())
	slices, err := imageutil.SlicePages(bitmap, pageHeight)
	if err != nil {
		return nil, &ExportError{Stage: StagePaginating, Err: err}
	}

	p.enter(StageAssembled)
	data, err := assemblePDF(slices, p.geometry)
	if err != nil {
		return nil, &ExportError{Stage: StageAssembled, Err: err}
	}

	return &Artifact{
		Filename:    Filename(invoiceNumber),
		Data:        data,
		PageCount:   len(slices),
		GeneratedAt: time.Now(),
	}, nil
}

// Filename derives the download name from the invoice number, falling
// back to "document" when the number is empty
func Filename(invoiceNumber string) string {
	name := strings.TrimSpace(invoiceNumber)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, name)
	if name == "" {
		name = "document"
	}
	return fmt.Sprintf("invoice_%s.pdf", name)
}
