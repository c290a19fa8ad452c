package redact

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Anas09876/FinDeIdentify/internal/document"
)

var (
	labelColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	watermarkColor = color.RGBA{R: 204, G: 26, B: 26, A: 255}
)

// renderImage decodes the original raster, composites an opaque rectangle
// over every blur region, adds the corner watermark and re-encodes in the
// source format.
func (r *Renderer) renderImage(originalPath, contentType string, det document.DetectionResult, outPath string) error {
	f, err := os.Open(originalPath)
	if err != nil {
		return &RenderError{Reason: "unreadable original", Err: err}
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return &RenderError{Reason: "corrupt image", Err: err}
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	for _, region := range det.BlurredRegions {
		drawBlurRegion(canvas, region.Position)
	}

	drawLabel(canvas, 10, 24, "REDACTED DOCUMENT", watermarkColor)

	out, err := os.Create(outPath)
	if err != nil {
		return &RenderError{Reason: "failed to materialize output", Err: err}
	}
	defer out.Close()

	switch contentType {
	case document.ContentTypePNG:
		err = png.Encode(out, canvas)
	default:
		err = jpeg.Encode(out, canvas, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		os.Remove(outPath)
		return &RenderError{Reason: fmt.Sprintf("failed to encode %s", contentType), Err: err}
	}
	return nil
}

// drawBlurRegion composites an opaque labeled rectangle at the region's
// position. The top-left corner is clamped so the rectangle never extends
// past the image's right or bottom edge.
func drawBlurRegion(canvas *image.RGBA, pos document.Rect) {
	bounds := canvas.Bounds()

	w := min(pos.Width, bounds.Dx())
	h := min(pos.Height, bounds.Dy())
	x := clamp(pos.X, 0, bounds.Dx()-w)
	y := clamp(pos.Y, 0, bounds.Dy()-h)

	rect := image.Rect(bounds.Min.X+x, bounds.Min.Y+y, bounds.Min.X+x+w, bounds.Min.Y+y+h)
	draw.Draw(canvas, rect, image.Black, image.Point{}, draw.Src)

	// Center the label inside the block, when it fits.
	label := "[REDACTED]"
	face := basicfont.Face7x13
	labelWidth := font.MeasureString(face, label).Ceil()
	if labelWidth <= w && face.Height <= h {
		lx := rect.Min.X + (w-labelWidth)/2
		ly := rect.Min.Y + (h+face.Ascent)/2
		drawLabel(canvas, lx, ly, label, labelColor)
	}
}

// drawLabel draws a single text line with the baseline at (x, y).
func drawLabel(canvas *image.RGBA, x, y int, text string, c color.Color) {
	d := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
