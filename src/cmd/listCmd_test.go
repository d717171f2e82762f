package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestListCommandPrintsTable(t *testing.T) {
	preserveGlobals(t)
	resetViper(t)
	captureLogs(t)
	srv := newSheetServer(t, testDescriptor, testAtlas(t))
	out := captureOut(t, listCmd)
	listJSON = false

	if err := listCmd.RunE(listCmd, []string{srv.URL + "/sprite"}); err != nil {
		t.Fatalf("list: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "pin ") || !strings.Contains(lines[0], "4x4") || !strings.Contains(lines[0], "image") {
		t.Fatalf("line 0 = %q, want pin 4x4 image", lines[0])
	}
	if !strings.HasPrefix(lines[1], "star ") || !strings.HasSuffix(lines[1], "sdf") {
		t.Fatalf("line 1 = %q, want star ... sdf", lines[1])
	}
}

func TestListCommandPrintsJSON(t *testing.T) {
	preserveGlobals(t)
	resetViper(t)
	captureLogs(t)
	srv := newSheetServer(t, testDescriptor, testAtlas(t))
	out := captureOut(t, listCmd)
	listJSON = true

	if err := listCmd.RunE(listCmd, []string{srv.URL + "/sprite"}); err != nil {
		t.Fatalf("list: %v", err)
	}

	var records []struct {
		ID        string `json:"id"`
		ImageData []byte `json:"imageData"`
		SDF       bool   `json:"sdf"`
	}
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != "pin" || len(records[0].ImageData) == 0 {
		t.Fatalf("records[0] = %+v, want pin with image data", records[0])
	}
	if records[1].ID != "star" || !records[1].SDF {
		t.Fatalf("records[1] = %+v, want sdf star", records[1])
	}
}

func TestListCommandFallsBackToNames(t *testing.T) {
	preserveGlobals(t)
	resetViper(t)
	buf := captureLogs(t)
	srv := newSheetServer(t, testDescriptor, nil)
	out := captureOut(t, listCmd)
	listJSON = false

	if err := listCmd.RunE(listCmd, []string{srv.URL + "/sprite"}); err != nil {
		t.Fatalf("list: %v", err)
	}

	if got := strings.Count(out.String(), "name-only"); got != 2 {
		t.Fatalf("name-only rows = %d, want 2: %q", got, out.String())
	}
	if !strings.Contains(buf.String(), "falling back to sprite names") {
		t.Fatalf("expected fallback warning, got %q", buf.String())
	}
}

func TestListCommandUnreachableSheetPrintsNothing(t *testing.T) {
	preserveGlobals(t)
	resetViper(t)
	captureLogs(t)
	out := captureOut(t, listCmd)
	listJSON = false

	if err := listCmd.RunE(listCmd, []string{"file:///does/not/exist/sprite"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("output = %q, want empty", out.String())
	}
}
