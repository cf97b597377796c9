package imaging

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/vladimiradmaev/insulin-uploader/internal/apperrors"
)

const jpegQuality = 90

// Normalize converts an arbitrary uploaded image into canonical JPEG bytes.
// Alpha and palette channels are flattened onto an opaque white background.
func Normalize(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewImageDecodeError(err)
	}

	bounds := src.Bounds()
	rgb := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgb, rgb.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(rgb, rgb.Bounds(), src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "JPEG_ENCODE", "Failed to re-encode image")
	}
	return buf.Bytes(), nil
}
