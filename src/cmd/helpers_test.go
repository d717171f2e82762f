package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
)

const testDescriptor = `{
	"pin":  {"x": 0, "y": 0, "width": 4, "height": 4, "pixelRatio": 1},
	"star": {"x": 4, "y": 0, "width": 4, "height": 4, "pixelRatio": 1, "sdf": true}
}`

func testAtlas(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 60), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode atlas: %v", err)
	}
	return buf.Bytes()
}

// newSheetServer serves "/sprite.json" and "/sprite.png"; an empty atlas is a 404.
func newSheetServer(t *testing.T, descriptor string, atlas []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/sprite.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(descriptor))
	})
	mux.HandleFunc("/sprite.png", func(w http.ResponseWriter, r *http.Request) {
		if len(atlas) == 0 {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(atlas)
	})
	mux.HandleFunc("/fonts.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["Noto Sans Regular", "Open Sans Bold"]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// captureOut points cmd's stdout at a buffer for the duration of the test.
func captureOut(t *testing.T, cmd *cobra.Command) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	return buf
}
