package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestReadDir_LabelsFromFilenames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0.5C.csv", "0,4.2\n0.5,3.6\n1,3.0\n")
	writeFile(t, dir, "1C.csv", "0,4.1\n0.5,3.5\n1,2.9\n")
	writeFile(t, dir, "notes.txt", "ignore me")

	curves, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(curves) != 2 {
		t.Fatalf("got %d curves, want 2", len(curves))
	}
	for _, label := range []string{"0.5", "1"} {
		points, ok := curves[label]
		if !ok {
			t.Fatalf("missing curve %q, have %v", label, curves)
		}
		if len(points) != 3 {
			t.Errorf("curve %q has %d points, want 3", label, len(points))
		}
	}
	if curves["0.5"][0].Voltage != 4.2 {
		t.Errorf("first voltage %v, want 4.2", curves["0.5"][0].Voltage)
	}
}

func TestReadFile_SkipsHeader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2C.csv", "DoD,Voltage\n0,4.0\n1,3.0\n")
	points, err := ReadFile(filepath.Join(dir, "2C.csv"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2 after header skip", len(points))
	}
}

func TestReadFile_NonNumericRow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1C.csv", "0,4.0\nbad,row\n")
	if _, err := ReadFile(filepath.Join(dir, "1C.csv")); err == nil {
		t.Fatal("expected error for non-numeric data row")
	}
}

func TestReadDir_Empty(t *testing.T) {
	if _, err := ReadDir(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without curve files")
	}
}
