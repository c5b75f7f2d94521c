package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"cityfood/src/errs"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const jpegQuality = 85

// decoded pictures above this many pixels are refused before decoding,
// a small file can declare huge dimensions
const maxPixels = 50_000_000

// accepted upload types and the format they are stored as
var imageFormats = map[string]imaging.Format{
	"image/png":  imaging.PNG,
	"image/gif":  imaging.PNG,
	"image/jpeg": imaging.JPEG,
	"image/webp": imaging.JPEG,
}

var (
	unsupportedImage = errs.UserError("Unsupported file type! Only png, jpeg, webp and gif are accepted", http.StatusUnsupportedMediaType)
	openFailed       = errs.Validation("Failed to open the uploaded file")
	corruptedImage   = errs.Validation("The uploaded image could not be decoded")
	oversizedImage   = errs.UserError(fmt.Sprintf("Image dimensions are too large, at most %d pixels are accepted", maxPixels), http.StatusRequestEntityTooLarge)
)

// Images validates, resizes and stores uploaded pictures.
type Images struct {
	store   Storage
	maxSide int
}

func NewImages(store Storage, maxSide int) *Images {
	return &Images{store: store, maxSide: maxSide}
}

// Save returns the public URL of the processed image.
func (i *Images) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", openFailed
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", openFailed
	}

	body, ext, contentType, err := i.Normalize(data)
	if err != nil {
		return "", err
	}

	url, err := i.store.Put(ctx, ImageKey(fh.Filename, ext), body, contentType)
	if err != nil {
		return "", errs.InternalError(err)
	}
	return url, nil
}

// Normalize sniffs the real content type, shrinks the picture to fit maxSide
// and re-encodes it. Smaller pictures are not upscaled.
func (i *Images) Normalize(data []byte) ([]byte, string, string, error) {
	mtype := mimetype.Detect(data)

	var format imaging.Format
	found := false
	for accepted, f := range imageFormats {
		if mtype.Is(accepted) {
			format, found = f, true
			break
		}
	}
	if !found {
		return nil, "", "", unsupportedImage
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", "", corruptedImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", "", corruptedImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, "", "", oversizedImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", "", corruptedImage
	}

	bounds := img.Bounds()
	if bounds.Dx() > i.maxSide || bounds.Dy() > i.maxSide {
		img = imaging.Fit(img, i.maxSide, i.maxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", "", errs.InternalError(err)
	}

	if format == imaging.PNG {
		return buf.Bytes(), ".png", "image/png", nil
	}
	return buf.Bytes(), ".jpg", "image/jpeg", nil
}

// ImageKey builds images/<slug of the original name>-<uuid><ext>.
func ImageKey(filename string, ext string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name := slug.Make(base)
	if name == "" {
		name = "image"
	}
	return fmt.Sprintf("images/%s-%s%s", name, uuid.New(), ext)
}
