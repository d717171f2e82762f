package app

import (
	"archive/tar"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	bar "github.com/schollz/progressbar/v3"
	"github.com/ulikunitz/xz"
)

// ExportResult summarises an export run.
type ExportResult struct {
	Written []string // file names relative to the output directory, in sprite order
	Skipped int      // name-only records
}

// ExportSprites writes every record that carries an image to outputDir as
// "<id>.png". Name-only records are skipped.
func ExportSprites(sprites []SpriteRecord, outputDir string) (ExportResult, error) {
	var res ExportResult
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return res, fmt.Errorf("create output dir %q: %w", outputDir, err)
	}

	progress := bar.NewOptions(
		len(sprites),
		bar.OptionSetDescription("Exporting sprites"),
		bar.OptionSetWriter(os.Stderr),
		bar.OptionShowCount(),
		bar.OptionShowIts(),
		bar.OptionSetItsString("sprites"),
		bar.OptionThrottle(100),
		bar.OptionClearOnFinish(),
	)

	names := exportNames(sprites)
	for i, s := range sprites {
		if !s.HasImage() {
			log.Debug().Str("id", s.ID).Msg("skip: no image data")
			res.Skipped++
			_ = progress.Add(1)
			continue
		}

		outPath := filepath.Join(outputDir, names[i])
		if err := os.WriteFile(outPath, s.ImageData, 0o644); err != nil {
			_ = progress.Exit()
			return res, fmt.Errorf("write sprite %q: %w", s.ID, err)
		}
		res.Written = append(res.Written, names[i])
		_ = progress.Add(1)
	}
	_ = progress.Finish()

	log.Info().
		Int("exported", len(res.Written)).
		Int("skipped", res.Skipped).
		Str("output", outputDir).
		Msg("Exporting sprites finished")
	return res, nil
}

// ArchiveSprites writes every record that carries an image into a .tar.xz bundle.
func ArchiveSprites(sprites []SpriteRecord, archivePath string) (err error) {
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("create %q: %w", archivePath, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	xw, err := xz.NewWriter(f)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}
	tw := tar.NewWriter(xw)

	names := exportNames(sprites)
	now := time.Now()
	for i, s := range sprites {
		if !s.HasImage() {
			continue
		}
		hdr := &tar.Header{
			Name:    names[i],
			Mode:    0o644,
			Size:    int64(len(s.ImageData)),
			ModTime: now,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("tar header %q: %w", s.ID, err)
		}
		if _, err := tw.Write(s.ImageData); err != nil {
			return fmt.Errorf("tar write %q: %w", s.ID, err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("close xz: %w", err)
	}
	log.Debug().Str("archive", archivePath).Msg("wrote sprite archive")
	return nil
}

// exportNames assigns a unique file name to every record, in order. A clash
// gets the first free "-N" suffix, checked against generated names too.
func exportNames(sprites []SpriteRecord) []string {
	names := make([]string, len(sprites))
	taken := make(map[string]bool, len(sprites))
	for i, s := range sprites {
		name := spriteFileName(s.ID)
		base := strings.TrimSuffix(name, ".png")
		for n := 2; taken[name]; n++ {
			name = base + "-" + strconv.Itoa(n) + ".png"
		}
		taken[name] = true
		names[i] = name
	}
	return names
}
