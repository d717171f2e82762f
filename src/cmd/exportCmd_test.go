package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportCommandWritesSpritesAndArchive(t *testing.T) {
	preserveGlobals(t)
	resetViper(t)
	buf := captureLogs(t)
	srv := newSheetServer(t, testDescriptor, testAtlas(t))

	OutputPath = filepath.Join(t.TempDir(), "sprites")
	exportArchive = true

	if err := exportCmd.RunE(exportCmd, []string{srv.URL + "/sprite"}); err != nil {
		t.Fatalf("export: %v", err)
	}

	for _, name := range []string{"pin.png", "star.png"} {
		if _, err := os.Stat(filepath.Join(OutputPath, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(OutputPath + ".tar.xz"); err != nil {
		t.Fatalf("expected archive: %v", err)
	}

	logs := buf.String()
	if !strings.Contains(logs, "Sprite Picker export running") {
		t.Fatalf("expected start log, got %q", logs)
	}
	if !strings.Contains(logs, "Sprite Picker export finished") {
		t.Fatalf("expected finish log, got %q", logs)
	}
}

func TestExportCommandFailsOnUnwritableOutput(t *testing.T) {
	preserveGlobals(t)
	resetViper(t)
	buf := captureLogs(t)
	srv := newSheetServer(t, testDescriptor, testAtlas(t))

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	OutputPath = filepath.Join(blocker, "sprites")
	exportArchive = false

	if err := exportCmd.RunE(exportCmd, []string{srv.URL + "/sprite"}); err == nil {
		t.Fatalf("export into a file path succeeded, want error")
	}
	if !strings.Contains(buf.String(), "Can not export sprites") {
		t.Fatalf("expected error log, got %q", buf.String())
	}
}

func TestArchivePathFor(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"out/sprites", "out/sprites.tar.xz"},
		{"out/sprites/", "out/sprites.tar.xz"},
	}
	for _, tc := range cases {
		if got := archivePathFor(tc.in); got != tc.want {
			t.Fatalf("archivePathFor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
