// Package imaging prepares uploaded pictures of uniform types for storage.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension is the largest width or height of a stored type picture.
const MaxDimension = 640

// MaxUploadBytes limits the size of an uploaded picture.
const MaxUploadBytes = 8 << 20

// JPEGQuality is the compression quality of stored pictures.
const JPEGQuality = 85

// ErrTooLarge is returned for uploads above MaxUploadBytes.
var ErrTooLarge = errors.New("image too large")

var acceptedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Picture is an encoded image ready to be stored.
type Picture struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Process validates an uploaded picture by sniffing its bytes, flattens
// transparency onto white, fits it into MaxDimension and encodes it as JPEG.
func Process(r io.Reader) (*Picture, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	detected := http.DetectContentType(data)
	if !acceptedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if w == src.Bounds().Dx() && h == src.Bounds().Dy() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return &Picture{Data: buf.Bytes(), MIME: "image/jpeg", Width: w, Height: h}, nil
}

// fit scales w x h down to fit in a limit x limit box, keeping the aspect ratio.
func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w > h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	return max(w, 1), max(h, 1)
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
