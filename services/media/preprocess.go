package media

import (
	"bytes"
	"errors"
	"image"
	stddraw "image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

const (
	MaxDimension = 1200
	// MaxPixels bounds width*height of an upload before it is decoded.
	MaxPixels = 40_000_000
	JPEGQuality  = 80
	ContentType  = "image/jpeg"
)

var (
	ErrEmptyImage  = errors.New("uploaded file is empty")
	ErrUnsupported = errors.New("unable to decode image")
	ErrTooLarge    = errors.New("image dimensions are too large")
)

// Preprocess decodes raw, shrinks it to fit MaxDimension on both axes and
// re-encodes it as JPEG. Smaller images keep their size. The header is read
// first so an image over MaxPixels is refused without allocating its pixels.
func Preprocess(raw []byte) ([]byte, int, int, error) {
	if len(raw) == 0 {
		return nil, 0, 0, ErrEmptyImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		if cfg, err = webp.DecodeConfig(bytes.NewReader(raw)); err != nil {
			return nil, 0, 0, ErrUnsupported
		}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, 0, 0, ErrUnsupported
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, 0, 0, ErrTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		decoded, webpErr := webp.Decode(bytes.NewReader(raw))
		if webpErr != nil {
			return nil, 0, 0, ErrUnsupported
		}
		img = decoded
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, 0, 0, ErrUnsupported
	}
	w, h := FitWithin(bounds.Dx(), bounds.Dy(), MaxDimension)

	// JPEG has no alpha, so transparent regions land on white.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	stddraw.Draw(dst, dst.Bounds(), image.White, image.Point{}, stddraw.Src)
	if w == bounds.Dx() && h == bounds.Dy() {
		stddraw.Draw(dst, dst.Bounds(), img, bounds.Min, stddraw.Over)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, 0, 0, err
	}
	return out.Bytes(), w, h, nil
}

// FitWithin scales w×h down to fit a box×box square, preserving aspect ratio.
func FitWithin(w, h, box int) (int, int) {
	if w <= box && h <= box {
		return w, h
	}
	if w >= h {
		return box, max(1, h*box/w)
	}
	return max(1, w*box/h), box
}
