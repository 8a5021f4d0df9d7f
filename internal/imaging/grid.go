package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ComposeGrid arranges a batch's images into a single montage.
//
// Cells are equal-sized: every image is fitted into a cellSize square and
// centered, and cells are laid out row-major in a near-square grid
// (ceil(sqrt(n)) columns). Empty trailing cells stay white.
func ComposeGrid(images []image.Image, cellSize int) (*image.NRGBA, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to compose")
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("invalid cell size %d", cellSize)
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(images)))))
	rows := (len(images) + cols - 1) / cols

	canvas := imaging.New(cols*cellSize, rows*cellSize, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	for i, img := range images {
		fitted := imaging.Fit(img, cellSize, cellSize, imaging.Lanczos)

		col := i % cols
		row := i / cols
		// Center the fitted image within its cell.
		x := col*cellSize + (cellSize-fitted.Bounds().Dx())/2
		y := row*cellSize + (cellSize-fitted.Bounds().Dy())/2
		canvas = imaging.Paste(canvas, fitted, image.Pt(x, y))
	}
	return canvas, nil
}

// ComposeStrip arranges images into a single horizontal row, left to right.
// Used for comic-strip layouts where reading order matters more than a
// compact montage.
func ComposeStrip(images []image.Image, cellSize int) (*image.NRGBA, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to compose")
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("invalid cell size %d", cellSize)
	}

	canvas := imaging.New(len(images)*cellSize, cellSize, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	for i, img := range images {
		fitted := imaging.Fit(img, cellSize, cellSize, imaging.Lanczos)
		x := i*cellSize + (cellSize-fitted.Bounds().Dx())/2
		y := (cellSize - fitted.Bounds().Dy()) / 2
		canvas = imaging.Paste(canvas, fitted, image.Pt(x, y))
	}
	return canvas, nil
}
