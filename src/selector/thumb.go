package selector

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"

	"github.com/simivar/sprite-picker/src/app"
)

// Pixels less opaque than this render as empty cells.
const alphaThreshold = 128

// thumbCache decodes each sprite once and memoises rendered thumbnails.
// Shared by copies of a Model; only touched from the bubbletea event loop.
type thumbCache struct {
	images   map[string]image.Image
	failed   map[string]bool
	rendered map[string]string
}

func newThumbCache() *thumbCache {
	return &thumbCache{
		images:   make(map[string]image.Image),
		failed:   make(map[string]bool),
		rendered: make(map[string]string),
	}
}

func (c *thumbCache) render(s app.SpriteRecord, cols, rows int) (string, bool) {
	key := fmt.Sprintf("%s@%dx%d", s.ID, cols, rows)
	if out, ok := c.rendered[key]; ok {
		return out, true
	}
	img, ok := c.decode(s)
	if !ok {
		return "", false
	}
	out := thumbnail(img, cols, rows)
	c.rendered[key] = out
	return out, true
}

func (c *thumbCache) decode(s app.SpriteRecord) (image.Image, bool) {
	if img, ok := c.images[s.ID]; ok {
		return img, true
	}
	if c.failed[s.ID] {
		return nil, false
	}
	img, err := png.Decode(bytes.NewReader(s.ImageData))
	if err != nil {
		c.failed[s.ID] = true
		return nil, false
	}
	c.images[s.ID] = img
	return img, true
}

// thumbnail scales img into cols x rows terminal cells. Each cell shows two
// vertically stacked pixels through the upper half block glyph. The aspect
// ratio is kept and the picture is centred in the box.
func thumbnail(img image.Image, cols, rows int) string {
	box := image.NewNRGBA(image.Rect(0, 0, cols, rows*2))
	sb := img.Bounds()
	if sb.Dx() > 0 && sb.Dy() > 0 {
		w, h := fit(sb.Dx(), sb.Dy(), cols, rows*2)
		x0 := (cols - w) / 2
		y0 := (rows*2 - h) / 2
		xdraw.ApproxBiLinear.Scale(box, image.Rect(x0, y0, x0+w, y0+h), img, sb, xdraw.Src, nil)
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteRune('\n')
		}
		for x := 0; x < cols; x++ {
			b.WriteString(halfBlock(box.NRGBAAt(x, 2*y), box.NRGBAAt(x, 2*y+1)))
		}
	}
	return b.String()
}

// fit scales w x h down or up to the largest size inside maxW x maxH.
func fit(w, h, maxW, maxH int) (int, int) {
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}

func halfBlock(top, bottom color.NRGBA) string {
	topOn := top.A >= alphaThreshold
	bottomOn := bottom.A >= alphaThreshold
	switch {
	case topOn && bottomOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render("▀")
	case topOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Render("▀")
	case bottomOn:
		return lipgloss.NewStyle().Foreground(hex(bottom)).Render("▄")
	default:
		return " "
	}
}

func hex(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
