package imgutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxPixels bounds width*height of an accepted upload. Larger images are
// refused before any pixel data is decoded.
const MaxPixels = 178956970

var (
	// ErrEmpty is returned for a zero-length upload.
	ErrEmpty = errors.New("image data is empty")
	// ErrTooLarge is returned when the header claims more than MaxPixels.
	ErrTooLarge = errors.New("image dimensions exceed limit")
)

// passthrough lists decoded formats the upstream model accepts as-is.
var passthrough = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
}

// Image is a validated raster upload ready to be sent upstream.
type Image struct {
	Data     []byte
	MIMEType string
	// Format is the codec name reported by image.Decode for the original bytes.
	Format string
	Width  int
	Height int
}

// Decode checks the header against MaxPixels, then fully decodes data to
// prove it is a raster image. Formats the model does not take are re-encoded
// as PNG.
func Decode(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmpty
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Image{}, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	out := Image{
		Data:   data,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
	if mime, ok := passthrough[format]; ok {
		out.MIMEType = mime
		return out, nil
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return Image{}, fmt.Errorf("re-encode %s as png: %w", format, err)
	}
	out.Data = buf.Bytes()
	out.MIMEType = "image/png"
	return out, nil
}
