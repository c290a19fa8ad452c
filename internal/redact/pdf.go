package redact

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/Anas09876/FinDeIdentify/internal/document"
)

// Fixed bar geometry, in points from the top-left corner of each page. The
// placement is position-agnostic: exact glyph coordinates are never computed
// upstream, so bars land at deterministic fixed positions rather than over
// the actual text.
const (
	barLeft       = 50
	headingOffset = 50  // "REDACTED DOCUMENT" marking below the top edge
	firstBarTop   = 100 // first bar below the top edge
	barSpacing    = 25
	phoneSpacing  = 20
	maxPhoneBars  = 3
)

// renderPDF stamps every page with a heading and one opaque bar per detected
// category (phone bars capped), stacked with consistent vertical spacing.
func (r *Renderer) renderPDF(originalPath string, det document.DetectionResult, outPath string) error {
	if err := copyFile(originalPath, outPath); err != nil {
		return &RenderError{Reason: "failed to materialize output", Err: err}
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	descs := []string{
		fmt.Sprintf("fontname:Helvetica, points:12, scale:1 abs, pos:tl, off:%d -%d, fillcolor:#cc1a1a, rot:0", barLeft, headingOffset),
	}
	barTexts := []string{"REDACTED DOCUMENT"}

	y := firstBarTop
	if len(det.AadhaarNumbers) > 0 {
		descs = append(descs, barDesc(y))
		barTexts = append(barTexts, "REDACTED")
		y += barSpacing
	}
	if len(det.PANNumbers) > 0 {
		descs = append(descs, barDesc(y))
		barTexts = append(barTexts, "REDACTED")
		y += barSpacing
	}
	for i := 0; i < len(det.PhoneNumbers) && i < maxPhoneBars; i++ {
		descs = append(descs, barDesc(y))
		barTexts = append(barTexts, "REDACTED")
		y += phoneSpacing
	}

	for i, desc := range descs {
		wm, err := api.TextWatermark(barTexts[i], desc, true, false, types.POINTS)
		if err != nil {
			return &RenderError{Reason: "invalid redaction stamp", Err: err}
		}
		if err := api.AddWatermarksFile(outPath, "", nil, wm, conf); err != nil {
			os.Remove(outPath)
			return &RenderError{Reason: "failed to stamp PDF", Err: err}
		}
	}

	return nil
}

// barDesc renders an opaque black bar: white text on a black background box
// so the covered area reads as a redaction block on every page.
func barDesc(top int) string {
	return fmt.Sprintf(
		"fontname:Helvetica, points:10, scale:1 abs, pos:tl, off:%d -%d, fillcolor:#ffffff, bgcolor:#000000, margins:3 60, rot:0",
		barLeft, top,
	)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
