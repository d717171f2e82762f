package app

import (
	"encoding/base64"
	"errors"
)

// ErrEmptyDescriptor is returned when a descriptor was fetched but holds no sprites.
var ErrEmptyDescriptor = errors.New("no sprite metadata found")

// SpriteMetadata is one sprite's rectangle inside the atlas.
type SpriteMetadata struct {
	ID         string
	X          int
	Y          int
	Width      int
	Height     int
	PixelRatio float64 // 0 when the descriptor omits it
	SDF        bool
}

// Degenerate reports whether the rectangle has no area.
func (m SpriteMetadata) Degenerate() bool {
	return m.Width <= 0 || m.Height <= 0
}

// Descriptor holds the sprite entries in the order they appear in the JSON document.
type Descriptor struct {
	Entries []SpriteMetadata
}

func (d Descriptor) Len() int {
	return len(d.Entries)
}

func (d Descriptor) IDs() []string {
	ids := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// SpriteRecord is a selectable sprite. ImageData is nil for name-only records.
type SpriteRecord struct {
	ID        string `json:"id"`
	ImageData []byte `json:"imageData,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	SDF       bool   `json:"sdf"`
}

func (r SpriteRecord) HasImage() bool {
	return len(r.ImageData) > 0
}

// DataURL returns the PNG as an embeddable data URL, or "" for name-only records.
func (r SpriteRecord) DataURL() string {
	if !r.HasImage() {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(r.ImageData)
}

// NameOnlyRecords builds degraded records carrying ids and the sdf flag only.
func NameOnlyRecords(d Descriptor) []SpriteRecord {
	out := make([]SpriteRecord, 0, d.Len())
	for _, e := range d.Entries {
		out = append(out, SpriteRecord{ID: e.ID, SDF: e.SDF})
	}
	return out
}
