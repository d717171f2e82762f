package app

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// LoadImage downloads and decodes an atlas. PNG is expected, BMP and WebP also decode.
func LoadImage(ctx context.Context, opener Opener, location string) (image.Image, error) {
	rc, err := opener.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, format, err := image.Decode(bufio.NewReaderSize(rc, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", location, err)
	}
	log.Debug().
		Str("url", location).
		Str("format", format).
		Int("w", img.Bounds().Dx()).
		Int("h", img.Bounds().Dy()).
		Msg("atlas decoded")
	return img, nil
}

// ExtractSprites crops every descriptor rectangle out of sheet and PNG-encodes it.
// Records follow descriptor order. Entries without area, rectangles that miss the
// sheet or are larger than it, and crops that cannot be encoded come back
// name-only so the id stays selectable.
func ExtractSprites(sheet image.Image, d Descriptor) []SpriteRecord {
	sprites := make([]SpriteRecord, 0, d.Len())
	for _, meta := range d.Entries {
		if meta.Degenerate() {
			log.Debug().
				Str("id", meta.ID).
				Int("w", meta.Width).
				Int("h", meta.Height).
				Msg("degenerate sprite rectangle; keeping name only")
			sprites = append(sprites, SpriteRecord{ID: meta.ID, SDF: meta.SDF})
			continue
		}
		if !fitsSheet(sheet.Bounds(), meta) {
			log.Debug().
				Str("id", meta.ID).
				Int("x", meta.X).
				Int("y", meta.Y).
				Int("w", meta.Width).
				Int("h", meta.Height).
				Msg("sprite rectangle does not fit the atlas; keeping name only")
			sprites = append(sprites, SpriteRecord{ID: meta.ID, SDF: meta.SDF})
			continue
		}

		data, err := encodePNG(cropSprite(sheet, meta))
		if err != nil {
			log.Warn().Err(err).Str("id", meta.ID).Msg("failed to encode sprite; keeping name only")
			sprites = append(sprites, SpriteRecord{ID: meta.ID, SDF: meta.SDF})
			continue
		}

		sprites = append(sprites, SpriteRecord{
			ID:        meta.ID,
			ImageData: data,
			Width:     meta.Width,
			Height:    meta.Height,
			SDF:       meta.SDF,
		})
	}
	return sprites
}

// fitsSheet reports whether the rectangle overlaps the sheet and is no larger
// than it. Crops are allocated at the rectangle's size, so the sheet bounds them.
func fitsSheet(sheet image.Rectangle, meta SpriteMetadata) bool {
	if meta.Width > sheet.Dx() || meta.Height > sheet.Dy() {
		return false
	}
	return meta.X < sheet.Dx() && meta.Y < sheet.Dy() &&
		meta.X > -meta.Width && meta.Y > -meta.Height
}

// cropSprite copies the meta rectangle onto a transparent surface of the same size.
// Parts of the rectangle outside the sheet stay transparent.
func cropSprite(sheet image.Image, meta SpriteMetadata) *image.NRGBA {
	b := sheet.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, meta.Width, meta.Height))
	src := image.Pt(b.Min.X+meta.X, b.Min.Y+meta.Y)
	draw.Draw(dst, dst.Bounds(), sheet, src, draw.Src)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
