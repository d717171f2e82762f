package app

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"
)

func testRecords(t *testing.T) []SpriteRecord {
	t.Helper()

	sheet := newTestImage(16, 8)
	return ExtractSprites(sheet, Descriptor{Entries: []SpriteMetadata{
		{ID: "left", X: 0, Y: 0, Width: 8, Height: 8},
		{ID: "shops/right", X: 8, Y: 0, Width: 8, Height: 8},
		{ID: "ghost", Width: 0, Height: 0},
	}})
}

func TestExportSpritesWritesImages(t *testing.T) {
	captureLogs(t)
	out := filepath.Join(t.TempDir(), "export")

	res, err := ExportSprites(testRecords(t), out)
	if err != nil {
		t.Fatalf("ExportSprites error: %v", err)
	}

	if got := strings.Join(res.Written, ","); got != "left.png,shops_right.png" {
		t.Fatalf("Written = %q", got)
	}
	if res.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", res.Skipped)
	}

	data, err := os.ReadFile(filepath.Join(out, "shops_right.png"))
	if err != nil {
		t.Fatalf("read exported sprite: %v", err)
	}
	compareRegion(t, decodeTestPNG(t, data), newTestImage(16, 8), 8, 0)

	if _, err := os.Stat(filepath.Join(out, "ghost.png")); !os.IsNotExist(err) {
		t.Fatalf("name-only sprite was exported: %v", err)
	}
}

func TestArchiveSpritesWritesTarXZ(t *testing.T) {
	captureLogs(t)
	path := filepath.Join(t.TempDir(), "sprites.tar.xz")

	if err := ArchiveSprites(testRecords(t), path); err != nil {
		t.Fatalf("ArchiveSprites error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		t.Fatalf("xz reader: %v", err)
	}
	tr := tar.NewReader(xr)

	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar next: %v", err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			t.Fatalf("read %s: %v", hdr.Name, err)
		}
		decodeTestPNG(t, data)
		names = append(names, hdr.Name)
	}

	if got := strings.Join(names, ","); got != "left.png,shops_right.png" {
		t.Fatalf("archive entries = %q", got)
	}
}

func TestExportNamesAreUnique(t *testing.T) {
	got := exportNames([]SpriteRecord{{ID: "a/b"}, {ID: "a_b"}, {ID: "a b"}, {ID: "c"}})
	want := []string{"a_b.png", "a_b-2.png", "a_b-3.png", "c.png"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("exportNames[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	got = exportNames([]SpriteRecord{{ID: "a b"}, {ID: "a_b"}, {ID: "a_b-2"}})
	want = []string{"a_b.png", "a_b-2.png", "a_b-2-2.png"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("exportNames[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExportSpritesKeepsEveryFileWhenSuffixesClash(t *testing.T) {
	data := encodeTestPNG(t, newTestImage(2, 2))
	sprites := []SpriteRecord{
		{ID: "a b", ImageData: data},
		{ID: "a_b", ImageData: data},
		{ID: "a_b-2", ImageData: data},
	}
	dir := t.TempDir()

	res, err := ExportSprites(sprites, dir)
	if err != nil {
		t.Fatalf("ExportSprites: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(res.Written) != 3 || len(entries) != 3 {
		t.Fatalf("written = %v, files on disk = %d, want 3 and 3", res.Written, len(entries))
	}
}
