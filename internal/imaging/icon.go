package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// cornerRadiusFraction is the rounded-corner radius as a fraction of the
// canvas side, so the curve scales consistently across output sizes.
const cornerRadiusFraction = 0.225

// Background is a parsed icon background: either transparent or an opaque
// fill color.
type Background struct {
	Transparent bool
	Color       color.NRGBA
}

// ParseBackground interprets a background specification from the tool
// boundary: "transparent", "white", "black", or a hex color like "#336699".
func ParseBackground(spec string) (Background, error) {
	switch spec {
	case "transparent":
		return Background{Transparent: true}, nil
	case "white":
		return Background{Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255}}, nil
	case "black":
		return Background{Color: color.NRGBA{A: 255}}, nil
	}
	c, err := colorful.Hex(spec)
	if err != nil {
		return Background{}, fmt.Errorf("invalid background %q: want transparent, white, black, or a hex color", spec)
	}
	r, g, b := c.RGB255()
	return Background{Color: color.NRGBA{R: r, G: g, B: b, A: 255}}, nil
}

// IconOptions controls icon post-processing for one tool call. The same
// options apply uniformly to every requested size.
type IconOptions struct {
	Background Background
	Rounded    bool
	Format     Format
}

// ValidateIconOptions rejects option combinations before any resize work.
// JPEG has no alpha channel, so a transparent background cannot be honored.
func ValidateIconOptions(opts IconOptions) error {
	if opts.Format == FormatJPEG && opts.Background.Transparent {
		return fmt.Errorf("jpeg output cannot have a transparent background")
	}
	return nil
}

// RenderIcon produces one square icon variant at the given pixel size.
//
// The source is scaled to fit within the canvas preserving aspect ratio and
// centered; remaining canvas area shows the background. With Rounded set,
// a rounded-rectangle alpha mask is applied to the finished canvas.
func RenderIcon(src image.Image, size int, opts IconOptions) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid icon size %d", size)
	}

	fitted := imaging.Fit(src, size, size, imaging.Lanczos)

	canvas := imaging.New(size, size, color.NRGBA{})
	canvas = imaging.PasteCenter(canvas, fitted)

	if !opts.Background.Transparent {
		base := imaging.New(size, size, opts.Background.Color)
		canvas = imaging.Clone(blend.Normal(base, canvas))
	}

	if opts.Rounded {
		canvas = applyRoundedMask(canvas)
	}
	return canvas, nil
}

// applyRoundedMask clears the canvas corners outside a rounded rectangle
// whose radius is a fixed fraction of the canvas side.
func applyRoundedMask(canvas *image.NRGBA) *image.NRGBA {
	bounds := canvas.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	radius := float64(side) * cornerRadiusFraction

	out := image.NewNRGBA(bounds)
	mask := &roundedMask{rect: bounds, radius: radius}
	draw.DrawMask(out, bounds, canvas, bounds.Min, mask, bounds.Min, draw.Src)
	return out
}

// roundedMask is an alpha mask that is opaque inside a rounded rectangle
// and transparent outside it.
type roundedMask struct {
	rect   image.Rectangle
	radius float64
}

func (m *roundedMask) ColorModel() color.Model { return color.AlphaModel }

func (m *roundedMask) Bounds() image.Rectangle { return m.rect }

func (m *roundedMask) At(x, y int) color.Color {
	fx, fy := float64(x)+0.5, float64(y)+0.5

	left := float64(m.rect.Min.X) + m.radius
	right := float64(m.rect.Max.X) - m.radius
	top := float64(m.rect.Min.Y) + m.radius
	bottom := float64(m.rect.Max.Y) - m.radius

	// Points in the edge bands are always inside; only the four corner
	// squares need the distance check.
	cx, cy := fx, fy
	if fx < left {
		cx = left
	} else if fx > right {
		cx = right
	}
	if fy < top {
		cy = top
	} else if fy > bottom {
		cy = bottom
	}

	dx, dy := fx-cx, fy-cy
	if dx*dx+dy*dy > m.radius*m.radius {
		return color.Alpha{}
	}
	return color.Alpha{A: 255}
}
