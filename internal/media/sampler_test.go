package media

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		pixel Pixel
		want  string
	}{
		{"transparent", Translucent(255, 255, 255, 0), ""},
		{"opaque red", Translucent(255, 0, 0, 1), "\x1b[38;2;255;0;0m██\x1b[0m"},
		{"no alpha channel", Opaque(0, 128, 255), "\x1b[38;2;0;128;255m██\x1b[0m"},
		{"half alpha", Translucent(200, 100, 1, 0.5), "\x1b[38;2;100;50;1m██\x1b[0m"},
		{"alpha ignored without channel", Pixel{R: 10, G: 20, B: 30, A: 0}, "\x1b[38;2;10;20;30m██\x1b[0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.pixel))
		})
	}
}

func TestPremultiplyClamps(t *testing.T) {
	assert.Equal(t, uint8(255), premultiply(255, 1.5))
	assert.Equal(t, uint8(0), premultiply(255, -1))
	assert.Equal(t, uint8(128), premultiply(255, 0.5))
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSampleContainFit(t *testing.T) {
	// A wide image is letterboxed top and bottom
	grid := Sample(solid(40, 20, color.NRGBA{R: 255, A: 255}), 8)
	require.Len(t, grid.Pixels, 8)
	for _, row := range grid.Pixels {
		require.Len(t, row, 8)
	}

	assert.Equal(t, 0.0, grid.Pixels[0][4].A, "top band is transparent")
	assert.Equal(t, 0.0, grid.Pixels[7][4].A, "bottom band is transparent")
	center := grid.Pixels[4][4]
	assert.Equal(t, 1.0, center.A)
	assert.Equal(t, uint8(255), center.R)
	assert.Equal(t, uint8(0), center.G)
}

func TestSampleTallImage(t *testing.T) {
	grid := Sample(solid(10, 30, color.NRGBA{B: 255, A: 255}), 9)
	assert.Equal(t, 0.0, grid.Pixels[4][0].A)
	assert.Equal(t, 0.0, grid.Pixels[4][8].A)
	assert.Equal(t, uint8(255), grid.Pixels[4][4].B)
}

func TestSampleDegenerate(t *testing.T) {
	assert.Empty(t, Sample(solid(4, 4, color.NRGBA{A: 255}), 0).Pixels)

	grid := Sample(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 3)
	require.Len(t, grid.Pixels, 3)
	assert.Equal(t, 0.0, grid.Pixels[1][1].A)
}

func TestGridRows(t *testing.T) {
	grid := Grid{Width: 2, Pixels: [][]Pixel{
		{Translucent(255, 0, 0, 1), Translucent(0, 0, 0, 0)},
		{Translucent(0, 0, 0, 0), Translucent(0, 255, 0, 1)},
	}}

	var rows []string
	for row := range grid.Rows() {
		rows = append(rows, row)
	}
	require.Len(t, rows, 2)
	assert.True(t, strings.HasSuffix(rows[0], EmptyBlock))
	assert.True(t, strings.HasPrefix(rows[1], EmptyBlock))
	assert.Contains(t, rows[1], "38;2;0;255;0")

	// Restartable, and stops when the consumer does
	count := 0
	for range grid.Rows() {
		count++
		break
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, strings.Join(rows, "\n"), grid.String())
}
