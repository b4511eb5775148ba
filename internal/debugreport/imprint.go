package debugreport

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/skip2/go-qrcode"

	"github.com/ivlev/stabilize/internal/frame"
	"github.com/ivlev/stabilize/internal/motion"
)

// qrSize is the overlay's side length in luma pixels. Small enough to
// stay out of the way on typical frame sizes, large enough to stay
// decodable after re-encoding.
const qrSize = 96

// Imprint burns a small QR code encoding the frame index, raw motion,
// correction, and zoom into the top-left corner of f's luminance plane,
// giving --debug_imprint a machine-decodable trace independent of any
// burned-in text overlay or external filter graph. Only 8-bit luma is
// supported; higher bit-depth sources skip the imprint silently rather
// than reinterpret a 2-byte sample buffer as single-byte gray.
func Imprint(f *frame.Frame, frameIdx int, raw, corr motion.Motion, zoom float64) error {
	if f.Format.BytesPerSample() != 1 {
		return nil
	}
	payload := fmt.Sprintf("f=%d raw=%.3f,%.3f,%.4f,%.4f corr=%.3f,%.3f,%.4f,%.4f zoom=%.4f",
		frameIdx, raw.Shift.X, raw.Shift.Y, raw.Scale, raw.Alpha,
		corr.Shift.X, corr.Shift.Y, corr.Scale, corr.Alpha, zoom)

	qr, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return fmt.Errorf("build debug imprint qr: %w", err)
	}

	luma := &f.Planes[0]
	size := qrSize
	if size > luma.Width {
		size = luma.Width
	}
	if size > luma.Height {
		size = luma.Height
	}
	if size <= 0 {
		return nil
	}

	overlay := qr.Image(size)
	dst := &image.Gray{Pix: luma.Pix, Stride: luma.Stride, Rect: image.Rect(0, 0, luma.Width, luma.Height)}
	draw.Draw(dst, image.Rect(0, 0, size, size), overlay, image.Point{}, draw.Src)
	return nil
}
