package imageutil

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// TestScaleToWidth checks downscaling keeps aspect ratio
func TestScaleToWidth(t *testing.T) {
	src := solidImage(1588, 2000, color.White)

	dst, err := ScaleToWidth(src, 794)
	require.NoError(t, err)

	assert.Equal(t, 794, dst.Bounds().Dx())
	assert.Equal(t, 1000, dst.Bounds().Dy())
}

// TestScaleToWidthNoop checks an image already at target width passes
// through untouched.
func TestScaleToWidthNoop(t *testing.T) {
	src := solidImage(794, 500, color.White)

	dst, err := ScaleToWidth(src, 794)
	require.NoError(t, err)
	assert.Equal(t, src, dst)
}

// TestScaleToWidthInvalid checks bad inputs are rejected
func TestScaleToWidthInvalid(t *testing.T) {
	_, err := ScaleToWidth(solidImage(10, 10, color.White), 0)
	assert.Error(t, err)

	_, err = ScaleToWidth(image.NewRGBA(image.Rect(0, 0, 0, 0)), 100)
	assert.Error(t, err)
}

// TestSlicePagesHeightsSumToSource checks slices are consecutive,
// top-to-bottom and their heights always sum to the source height.
func TestSlicePagesHeightsSumToSource(t *testing.T) {
	cases := []struct {
		name       string
		height     int
		pageHeight int
		wantPages  int
	}{
		{"exact single page", 1000, 1000, 1},
		{"just under one page", 999, 1000, 1},
		{"just over one page", 1001, 1000, 2},
		{"several pages with remainder", 3456, 1000, 4},
		{"exact multiple", 3000, 1000, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := solidImage(794, tc.height, color.White)

			pages, err := SlicePages(src, tc.pageHeight)
			require.NoError(t, err)
			require.Len(t, pages, tc.wantPages)

			total := 0
			for i, page := range pages {
				assert.Equal(t, 794, page.Bounds().Dx(), "page %d width", i)
				if i < len(pages)-1 {
					assert.Equal(t, tc.pageHeight, page.Bounds().Dy(), "page %d should be full height", i)
				}
				total += page.Bounds().Dy()
			}
			assert.Equal(t, tc.height, total, "slice heights must sum to source height")
		})
	}
}

// TestSlicePagesInvalid checks bad inputs are rejected
func TestSlicePagesInvalid(t *testing.T) {
	_, err := SlicePages(solidImage(10, 10, color.White), 0)
	assert.Error(t, err)

	_, err = SlicePages(image.NewRGBA(image.Rect(0, 0, 0, 0)), 100)
	assert.Error(t, err)
}

// TestEncodeDecodeRoundTrip checks PNG bytes survive a decode
func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := solidImage(20, 30, color.RGBA{R: 0x66, G: 0x7e, B: 0xea, A: 0xff})

	data, err := EncodePNG(src)
	require.NoError(t, err)

	decoded, err := DecodeImage(data)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), decoded.Bounds())
}

// TestDecodeImageInvalid checks garbage bytes fail cleanly
func TestDecodeImageInvalid(t *testing.T) {
	_, err := DecodeImage([]byte("not an image"))
	assert.Error(t, err)
}
