// Package preview turns an uploaded file into a render-ready raster and the
// image payload handed to the extraction model. PDFs contribute their first
// page only; scanned business documents embed that page as a single image.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/constants"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
)

// maxPreviewWidth caps preview rasters; anything wider is downscaled.
const maxPreviewWidth = 2000

// Result is a prepared upload. The extraction payload is chosen later from
// the original upload or this raster, depending on the file format.
type Result struct {
	PreviewPNG []byte // first-page raster, PNG
}

// Converter prepares uploads for display and extraction.
type Converter struct {
	logger *slog.Logger
}

func NewConverter(logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{logger: logger}
}

// Prepare converts one upload. PDF failures come back wrapped in
// ErrPreviewFailed so callers can tell them apart from extraction failures.
func (c *Converter) Prepare(name string, data []byte, mime string) (Result, error) {
	switch constants.MapMIMEToFormat(mime) {
	case constants.PDF:
		png, err := c.firstPagePNG(data)
		if err != nil {
			return Result{}, common.NewAppError("PREVIEW_FAILED",
				fmt.Sprintf("convert PDF %q", name), fmt.Errorf("%w: %w", common.ErrPreviewFailed, err))
		}
		return Result{PreviewPNG: png}, nil
	case constants.IMAGE:
		png, err := c.normalizeImage(data)
		if err != nil {
			return Result{}, common.NewAppError("PREVIEW_FAILED",
				fmt.Sprintf("decode image %q", name), fmt.Errorf("%w: %w", common.ErrPreviewFailed, err))
		}
		return Result{PreviewPNG: png}, nil
	default:
		return Result{}, common.NewAppError("PREVIEW_FAILED",
			fmt.Sprintf("unsupported content type %q for %q", mime, name), common.ErrInvalidInput)
	}
}

// firstPagePNG pulls the scanned raster embedded in page 1.
func (c *Converter) firstPagePNG(data []byte) ([]byte, error) {
	images, err := api.ExtractImagesRaw(bytes.NewReader(data), []string{"1"}, pdfmodel.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("extract page image: %w", err)
	}
	img, ok := firstPageImage(images)
	if !ok {
		return nil, fmt.Errorf("no raster image on first page")
	}
	raw, err := io.ReadAll(img)
	if err != nil {
		return nil, fmt.Errorf("read page image: %w", err)
	}
	png, err := c.normalizeImage(raw)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("preview.pdf.page_extracted", "bytes", len(png))
	return png, nil
}

// firstPageImage picks the raster from the extracted page set, one map of
// images per page keyed by object number. Scanned forms carry exactly one;
// when several exist the lowest object number wins for determinism.
func firstPageImage(pages []map[int]pdfmodel.Image) (pdfmodel.Image, bool) {
	for _, objs := range pages {
		var best pdfmodel.Image
		found := false
		for objNr, img := range objs {
			if !found || objNr < best.ObjNr {
				img.ObjNr = objNr
				best = img
				found = true
			}
		}
		if found {
			return best, true
		}
	}
	return pdfmodel.Image{}, false
}

// normalizeImage decodes, auto-orients, downscales oversized rasters and
// re-encodes as PNG.
func (c *Converter) normalizeImage(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	img = downscale(img)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func downscale(img image.Image) image.Image {
	if img.Bounds().Dx() <= maxPreviewWidth {
		return img
	}
	return imaging.Resize(img, maxPreviewWidth, 0, imaging.Lanczos)
}
