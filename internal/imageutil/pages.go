// Package imageutil holds the raster operations behind the export
// pipeline: normalizing capture width and slicing a tall bitmap into
// fixed-height page slices.
package imageutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// ScaleToWidth resamples an image to the target pixel width, keeping
// aspect ratio. Captures taken at a higher device scale come back
// wider than the layout width; this brings them back to layout space.
func ScaleToWidth(img image.Image, width int) (image.Image, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid target width %d", width)
	}

	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()
	if srcWidth == 0 || srcHeight == 0 {
		return nil, fmt.Errorf("cannot scale zero-size image")
	}
	if srcWidth == width {
		return img, nil
	}

	height := int(float64(srcHeight) * float64(width) / float64(srcWidth))
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	// High-quality resampling (CatmullRom is similar to Lanczos)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst, nil
}

// SlicePages cuts a tall bitmap into consecutive vertical slices of at
// most pageHeight pixels each. Slices appear in top-to-bottom order;
// the last slice holds whatever height remains. Slice heights always
// sum to the source height.
func SlicePages(img image.Image, pageHeight int) ([]image.Image, error) {
	if pageHeight <= 0 {
		return nil, fmt.Errorf("invalid page height %d", pageHeight)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("cannot slice zero-size image")
	}

	sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})

	var pages []image.Image
	for top := bounds.Min.Y; top < bounds.Max.Y; top += pageHeight {
		bottom := top + pageHeight
		if bottom > bounds.Max.Y {
			bottom = bounds.Max.Y
		}
		rect := image.Rect(bounds.Min.X, top, bounds.Max.X, bottom)

		if ok {
			pages = append(pages, sub.SubImage(rect))
			continue
		}

		// Fall back to copying for image types without SubImage
		page := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		draw.Copy(page, image.Point{}, img, rect, draw.Src, nil)
		pages = append(pages, page)
	}

	return pages, nil
}

// EncodePNG encodes an image as PNG bytes
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeImage decodes PNG or JPEG bytes into an image
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
