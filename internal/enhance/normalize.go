package enhance

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/disintegration/imaging"
)

// CanvasSize is the edge length of the canonical square output canvas.
const CanvasSize = 1024

// Normalize resizes the image to fit within the canonical canvas preserving
// aspect ratio, pads it to an exact square with opaque white, sharpens it and
// encodes the result as PNG.
func Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	fitted := imaging.Fit(img, CanvasSize, CanvasSize, imaging.Lanczos)
	canvas := imaging.New(CanvasSize, CanvasSize, color.White)
	canvas = imaging.PasteCenter(canvas, fitted)
	sharpened := imaging.Sharpen(canvas, 0.6)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, sharpened, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
