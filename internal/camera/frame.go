package camera

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"golang.org/x/image/draw"
)

// Frame is a single captured camera frame, JPEG-encoded and ready for
// transport. Frames are ephemeral: they are handed to the check-in
// orchestrator or the enrollment buffer and then discarded.
type Frame struct {
	JPEG       []byte
	CapturedAt time.Time
	Facing     FacingMode
	Mirrored   bool
}

// Base64 returns the JPEG payload as base64 text for the backend API.
func (f *Frame) Base64() string {
	return base64.StdEncoding.EncodeToString(f.JPEG)
}

// encodeFrame encodes img as a JPEG frame, mirroring it horizontally first
// when mirror is set. Mirroring happens exactly once, here.
func encodeFrame(img image.Image, facing FacingMode, mirror bool, quality int) (*Frame, error) {
	if mirror {
		img = mirrorHorizontal(img)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("could not encode frame: %w", err)
	}
	return &Frame{
		JPEG:       buf.Bytes(),
		CapturedAt: time.Now(),
		Facing:     facing,
		Mirrored:   mirror,
	}, nil
}

// mirrorHorizontal flips an image around its vertical axis.
func mirrorHorizontal(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// ResizeJPEG resizes a JPEG to fit within maxSize (width or height) while
// keeping aspect ratio, re-encoding at the given quality. Images already
// within bounds are re-encoded as-is for a consistent format.
func ResizeJPEG(data []byte, maxSize, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxSize && height <= maxSize {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		return buf.Bytes(), nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxSize
		newHeight = int(float64(height) * float64(maxSize) / float64(width))
	} else {
		newHeight = maxSize
		newWidth = int(float64(width) * float64(maxSize) / float64(height))
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}
