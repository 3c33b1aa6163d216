package objectstore

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultQuality      = 88
	DefaultMaxDimension = 2048
)

// ToJPEG decodifica cualquier formato registrado y re-encoda a JPEG.
// La transparencia se aplana sobre blanco; el lado mayor se limita a maxDim.
func ToJPEG(r io.Reader, quality, maxDim int) ([]byte, string, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	dstRect := fitWithin(src.Bounds(), maxDim)
	dst := image.NewRGBA(dstRect)
	draw.Draw(dst, dstRect, &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	if dstRect.Size() == src.Bounds().Size() {
		draw.Draw(dst, dstRect, src, src.Bounds().Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dstRect, src, src.Bounds(), draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), format, nil
}

func fitWithin(b image.Rectangle, maxDim int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return image.Rect(0, 0, w, h)
	}
	if w >= h {
		return image.Rect(0, 0, maxDim, max(1, h*maxDim/w))
	}
	return image.Rect(0, 0, max(1, w*maxDim/h), maxDim)
}
