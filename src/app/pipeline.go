package app

import (
	"context"
	"image"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Loader builds the selectable sprite list for a sprite base URL.
// It keeps no state between calls; concurrent Loads are independent.
type Loader struct {
	Opener Opener
}

func NewLoader(opener Opener) *Loader {
	return &Loader{Opener: opener}
}

// Load fetches "<baseURL>.json" and "<baseURL>.png" concurrently and extracts
// every sprite. When the atlas fails or the descriptor is empty it retries the
// descriptor alone and returns name-only records. It never fails: the worst
// outcome is an empty list.
func (l *Loader) Load(ctx context.Context, baseURL string) []SpriteRecord {
	if baseURL == "" {
		return []SpriteRecord{}
	}

	logger := log.With().
		Str("load", uuid.NewString()).
		Str("sprite", baseURL).
		Logger()
	ctx = logger.WithContext(ctx)

	var (
		desc  Descriptor
		sheet image.Image
		g     errgroup.Group
	)
	g.Go(func() error {
		d, err := FetchDescriptor(ctx, l.Opener, baseURL)
		if err != nil {
			return err
		}
		if d.Len() == 0 {
			return ErrEmptyDescriptor
		}
		desc = d
		return nil
	})
	g.Go(func() error {
		img, err := LoadImage(ctx, l.Opener, baseURL+atlasSuffix)
		if err != nil {
			return err
		}
		sheet = img
		return nil
	})

	err := g.Wait()
	if err == nil {
		sprites := ExtractSprites(sheet, desc)
		logger.Debug().Int("sprites", len(sprites)).Msg("sprite data loaded")
		return sprites
	}

	logger.Warn().Err(err).Msg("Failed to load sprite data, falling back to sprite names")
	sprites := NameOnlyRecords(LoadDescriptor(ctx, l.Opener, baseURL))
	logger.Debug().Int("sprites", len(sprites)).Msg("name-only sprite data loaded")
	return sprites
}

// ctxLogger returns the logger attached to ctx, or the global one.
func ctxLogger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
