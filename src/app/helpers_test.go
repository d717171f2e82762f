package app

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func newTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: uint8((x + y) % 256), A: 255})
		}
	}
	return img
}

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeTestPNG(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

// compareRegion checks that got equals the (x,y,w,h) region of sheet.
func compareRegion(t *testing.T, got image.Image, sheet image.Image, x, y int) {
	t.Helper()

	b := got.Bounds()
	for gy := b.Min.Y; gy < b.Max.Y; gy++ {
		for gx := b.Min.X; gx < b.Max.X; gx++ {
			wantPixel := color.NRGBAModel.Convert(sheet.At(x+gx, y+gy)).(color.NRGBA)
			gotPixel := color.NRGBAModel.Convert(got.At(gx, gy)).(color.NRGBA)
			if wantPixel != gotPixel {
				t.Fatalf("pixel mismatch at (%d,%d): got %#v want %#v", gx, gy, gotPixel, wantPixel)
			}
		}
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	origLogger := log.Logger
	origLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.SetGlobalLevel(origLevel)
	})

	buf := &bytes.Buffer{}
	log.Logger = zerolog.New(buf).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return buf
}

// spriteServer serves "/sprite.json" and "/sprite.png"; an empty descriptor
// or nil atlas answers 404.
type spriteServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newSpriteServer(t *testing.T, descriptor string, atlas []byte) *spriteServer {
	t.Helper()

	s := &spriteServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		switch r.URL.Path {
		case "/sprite.json":
			if descriptor == "" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(descriptor))
		case "/sprite.png":
			if atlas == nil {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(atlas)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *spriteServer) baseURL() string {
	return s.URL + "/sprite"
}
