// Package capture rasterizes rendered invoice documents with a
// headless browser. It is the only part of the system that talks to
// Chrome; everything downstream works on plain bitmaps.
package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ridwanfathin/invoice-builder-service/internal/imageutil"
	"github.com/ridwanfathin/invoice-builder-service/internal/render"
)

// DefaultSettleDelay is how long the engine waits after navigation for
// layout to settle before taking the screenshot
const DefaultSettleDelay = 100 * time.Millisecond

// deviceScale doubles the capture resolution so the rasterized pages
// stay sharp when placed on a PDF page
const deviceScale = 2

// CaptureError represents an error that occurred during rasterization
type CaptureError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *CaptureError) Error() string {
	if e.Err == nil {
		return "capture error: " + e.Op
	}
	return "capture error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *CaptureError) Unwrap() error {
	return e.Err
}

// ChromeEngine captures visual documents with headless Chrome. Each
// Capture call runs in its own browser context, so concurrent captures
// are independent.
type ChromeEngine struct {
	settleDelay time.Duration
}

// NewChromeEngine creates a capture engine. A non-positive settle
// delay falls back to DefaultSettleDelay.
func NewChromeEngine(settleDelay time.Duration) *ChromeEngine {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &ChromeEngine{settleDelay: settleDelay}
}

// Capture renders the document's HTML at its fixed pixel width and
// screenshots the full content height
func (e *ChromeEngine) Capture(ctx context.Context, doc *render.VisualDocument) (image.Image, error) {
	if doc == nil || doc.HTML == "" {
		return nil, &CaptureError{Op: "validate_document", Err: fmt.Errorf("no document to capture")}
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(doc.HTML))

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(doc.PageWidthPx), 600, chromedp.EmulateScale(deviceScale)),
		chromedp.Navigate(url),
		// Deterministic wait for layout to settle; capturing earlier
		// risks a partially laid-out frame
		chromedp.Sleep(e.settleDelay),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, &CaptureError{Op: "screenshot", Err: err}
	}
	if len(buf) == 0 {
		return nil, &CaptureError{Op: "screenshot", Err: fmt.Errorf("empty screenshot")}
	}

	img, err := imageutil.DecodeImage(buf)
	if err != nil {
		return nil, &CaptureError{Op: "decode_screenshot", Err: err}
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, &CaptureError{Op: "decode_screenshot", Err: fmt.Errorf("zero-size capture")}
	}
	return img, nil
}
