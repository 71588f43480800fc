// AngelaMos | 2026
// image.go

package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
)

const (
	defaultMaxUploadSize = 5 << 20
	jpegQuality          = 80

	// DefaultMaxPixels caps decoded image area at 40 megapixels.
	DefaultMaxPixels = 40_000_000
)

var decoders = map[string]func(io.Reader) (image.Image, error){
	"image/jpeg": jpeg.Decode,
	"image/png":  png.Decode,
	"image/gif":  gif.Decode,
}

// Normalize sniffs the content type from the bytes themselves, decodes the
// image, scales it down to maxWidth (keeping aspect ratio) and re-encodes it
// as JPEG. A maxWidth of 0 disables scaling. Images whose header declares
// more than maxPixels are refused before any pixel data is decoded; a
// maxPixels of 0 means DefaultMaxPixels.
func Normalize(r io.Reader, maxWidth uint, maxPixels int) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	mtype := mimetype.Detect(data)
	decode, ok := decoders[mtype.String()]
	if !ok {
		return nil, fmt.Errorf("%s: %w", mtype.String(), ErrUnsupportedImage)
	}

	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s header: %w", mtype.String(), ErrUnsupportedImage)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%s has no pixels: %w", mtype.String(), ErrUnsupportedImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%dx%d pixels: %w", cfg.Width, cfg.Height, ErrImageTooLarge)
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mtype.String(), ErrUnsupportedImage)
	}

	if maxWidth > 0 && uint(img.Bounds().Dx()) > maxWidth {
		img = resize.Resize(maxWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
