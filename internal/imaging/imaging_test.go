package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestProcessJPEG(t *testing.T) {
	pic, err := Process(bytes.NewReader(encodeJPEG(solid(100, 80, color.RGBA{255, 0, 0, 255}))))
	if err != nil {
		t.Fatalf("Process JPEG: %v", err)
	}
	if pic.MIME != "image/jpeg" || len(pic.Data) == 0 {
		t.Errorf("unexpected picture %s with %d bytes", pic.MIME, len(pic.Data))
	}
	if pic.Width != 100 || pic.Height != 80 {
		t.Errorf("small picture should keep its size, got %dx%d", pic.Width, pic.Height)
	}
}

func TestProcessTransparentPNGOnWhite(t *testing.T) {
	pic, err := Process(bytes.NewReader(encodePNG(solid(20, 20, color.RGBA{0, 0, 0, 0}))))
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(pic.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected white background, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestProcessDownscale(t *testing.T) {
	pic, err := Process(bytes.NewReader(encodeJPEG(solid(2000, 1000, color.RGBA{0, 255, 0, 255}))))
	if err != nil {
		t.Fatalf("Process large image: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(pic.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if img.Bounds().Dx() != MaxDimension || img.Bounds().Dy() != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestProcessRejectsOtherFormats(t *testing.T) {
	for _, data := range [][]byte{[]byte("not an image"), []byte("GIF89a...")} {
		if _, err := Process(bytes.NewReader(data)); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}

func TestProcessTooLarge(t *testing.T) {
	data := make([]byte, MaxUploadBytes+10)
	if _, err := Process(bytes.NewReader(data)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestFit(t *testing.T) {
	tests := []struct{ w, h, limit, wantW, wantH int }{
		{100, 100, 640, 100, 100},
		{1280, 640, 640, 640, 320},
		{640, 1280, 640, 320, 640},
		{5000, 1, 640, 640, 1},
	}
	for _, tt := range tests {
		w, h := fit(tt.w, tt.h, tt.limit)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fit(%d, %d, %d) = %d, %d; want %d, %d", tt.w, tt.h, tt.limit, w, h, tt.wantW, tt.wantH)
		}
	}
}
