package embedding

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// DefaultMaxImageSide caps the longest side of an image before it is sent to
// the embedding API, bounding payload size and cost.
const DefaultMaxImageSide = 512

const jpegQuality = 85

// DecodeImage decodes raw upload bytes into an image. Supported formats are
// whatever decoders are registered: jpeg, png, gif and webp.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// imageDataURI prepares an image for transmission: downscale so the longest
// side does not exceed maxSide (aspect ratio preserved), re-encode as JPEG,
// and wrap in a base64 data URI.
func imageDataURI(img image.Image, maxSide int) (string, error) {
	if maxSide <= 0 {
		maxSide = DefaultMaxImageSide
	}
	img = downscale(img, maxSide)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// downscale resizes img so its longest side is at most maxSide, using
// CatmullRom resampling onto an opaque RGBA surface. Images already within
// the cap are returned unchanged; JPEG encoding normalizes their color model.
func downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSide {
		return img
	}
	scale := float64(maxSide) / float64(longest)
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
