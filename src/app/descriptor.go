package app

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const (
	descriptorSuffix = ".json"
	atlasSuffix      = ".png"

	glyphTemplatePath = "/{fontstack}/{range}.pbf"
)

// ParseDescriptor decodes a sprite descriptor, keeping entries in document order.
// Values that are not JSON objects are skipped. A repeated id overwrites the
// earlier entry in place.
func ParseDescriptor(data []byte) (Descriptor, error) {
	if !gjson.ValidBytes(data) {
		return Descriptor{}, fmt.Errorf("invalid descriptor JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Descriptor{}, fmt.Errorf("expected top-level JSON object")
	}

	var d Descriptor
	index := make(map[string]int)
	root.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		if !value.IsObject() {
			log.Debug().Str("id", id).Msg("skipping non-object descriptor entry")
			return true
		}
		entry := SpriteMetadata{
			ID:         id,
			X:          int(value.Get("x").Int()),
			Y:          int(value.Get("y").Int()),
			Width:      int(value.Get("width").Int()),
			Height:     int(value.Get("height").Int()),
			PixelRatio: value.Get("pixelRatio").Float(),
			SDF:        value.Get("sdf").Bool(),
		}
		if i, ok := index[id]; ok {
			d.Entries[i] = entry
			return true
		}
		index[id] = len(d.Entries)
		d.Entries = append(d.Entries, entry)
		return true
	})
	return d, nil
}

// FetchDescriptor downloads and parses "<baseURL>.json". Unlike LoadDescriptor it
// reports failures, so callers can tell a broken endpoint from an empty sheet.
func FetchDescriptor(ctx context.Context, opener Opener, baseURL string) (Descriptor, error) {
	location := baseURL + descriptorSuffix
	data, err := readAll(ctx, opener, location)
	if err != nil {
		return Descriptor{}, err
	}
	d, err := ParseDescriptor(data)
	if err != nil {
		return Descriptor{}, fmt.Errorf("parse %q: %w", location, err)
	}
	return d, nil
}

// LoadDescriptor is FetchDescriptor with failures absorbed into an empty descriptor.
func LoadDescriptor(ctx context.Context, opener Opener, baseURL string) Descriptor {
	d, err := FetchDescriptor(ctx, opener, baseURL)
	if err != nil {
		ctxLogger(ctx).Warn().
			Err(err).
			Str("url", baseURL+descriptorSuffix).
			Msg("Can not load metadata, using empty descriptor")
		return Descriptor{}
	}
	return d
}

// FetchSpriteNames returns only the sprite ids, for plain autocomplete options.
func FetchSpriteNames(ctx context.Context, opener Opener, baseURL string) []string {
	if baseURL == "" {
		return []string{}
	}
	return LoadDescriptor(ctx, opener, baseURL).IDs()
}

// GlyphsMetadataURL maps a glyphs URL template to the fontstack list endpoint.
// Tileserver GL serves the list at /fontstacks.json when the template sits at
// the root; otherwise the template suffix is replaced with ".json".
func GlyphsMetadataURL(urlTemplate string) (string, error) {
	u, err := url.Parse(urlTemplate)
	if err != nil {
		return "", fmt.Errorf("parse glyphs template %q: %w", urlTemplate, err)
	}
	if u.Path == glyphTemplatePath {
		u.Path = "/fontstacks.json"
	} else {
		u.Path = strings.Replace(u.Path, glyphTemplatePath, descriptorSuffix, 1)
	}
	u.RawPath = ""
	return u.String(), nil
}

// FetchGlyphNames returns the fontstack names behind a glyphs URL template.
func FetchGlyphNames(ctx context.Context, opener Opener, urlTemplate string) []string {
	names := []string{}
	if urlTemplate == "" {
		return names
	}

	location, err := GlyphsMetadataURL(urlTemplate)
	if err != nil {
		ctxLogger(ctx).Warn().Err(err).Msg("Can not load glyphs metadata")
		return names
	}

	data, err := readAll(ctx, opener, location)
	if err != nil || !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsArray() {
		ctxLogger(ctx).Warn().Err(err).Str("url", location).Msg("Can not load glyphs metadata, using empty list")
		return names
	}
	gjson.ParseBytes(data).ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			names = append(names, v.String())
		}
		return true
	})
	return names
}

func readAll(ctx context.Context, opener Opener, location string) ([]byte, error) {
	rc, err := opener.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", location, err)
	}
	return data, nil
}
