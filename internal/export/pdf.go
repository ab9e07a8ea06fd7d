package export

import (
	"bytes"
	"fmt"
	"image"

	"github.com/jung-kurt/gofpdf"

	"github.com/ridwanfathin/invoice-builder-service/internal/imageutil"
)

// assemblePDF concatenates page slices, in order, into one portrait A4
// PDF. Every slice spans the full page width; the last slice is
// usually shorter than a page and sits at the top of its page.
func assemblePDF(slices []image.Image, geometry PageGeometry) ([]byte, error) {
	if len(slices) == 0 {
		return nil, fmt.Errorf("no page slices to assemble")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, slice := range slices {
		encoded, err := imageutil.EncodePNG(slice)
		if err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}

		name := fmt.Sprintf("page_%d", i+1)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(encoded))

		bounds := slice.Bounds()
		heightMM := geometry.WidthMM * float64(bounds.Dy()) / float64(bounds.Dx())

		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, geometry.WidthMM, heightMM, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
