package imports_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vesper-lang/vesper/internal/imports"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadResolvesRelativeToImportingFile(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "lib")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	writeFile(t, sub, "helper.json", `{"Print": {"StringLiteral": "from helper"}}`)
	mainPath := writeFile(t, dir, "main.json", `{"Import": "lib/helper.json"}`)

	r := imports.NewResolver(nil)
	resolved, doc, err := r.Load(mainPath, "lib/helper.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc == nil {
		t.Fatal("expected a decoded document on first load")
	}
	if doc.Kind() != "Print" {
		t.Fatalf("Kind() = %s, want Print", doc.Kind())
	}
	wantResolved := filepath.Join(sub, "helper.json")
	if resolved != wantResolved {
		t.Fatalf("resolved = %q, want %q", resolved, wantResolved)
	}
}

func TestLoadIsAtMostOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"Print": {"StringLiteral": "once"}}`)
	mainPath := filepath.Join(dir, "main.json")

	r := imports.NewResolver(nil)
	_, first, err := r.Load(mainPath, "a.json")
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if first == nil {
		t.Fatal("first Load of a never-before-seen path must return the document")
	}

	resolved, second, err := r.Load(mainPath, "a.json")
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if second != nil {
		t.Fatal("second Load of the same resolved path must return a nil document")
	}
	if resolved == "" {
		t.Fatal("second Load must still return the resolved path even with a nil document")
	}
}

func TestLoadFallsBackToSearchPaths(t *testing.T) {
	libDir := t.TempDir()
	writeFile(t, libDir, "shared.json", `{"Print": {"StringLiteral": "shared"}}`)

	mainDir := t.TempDir()
	mainPath := filepath.Join(mainDir, "main.json")

	r := imports.NewResolver([]string{libDir})
	_, doc, err := r.Load(mainPath, "shared.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc == nil || doc.Kind() != "Print" {
		t.Fatalf("expected the search-path fallback to find shared.json, got %v", doc)
	}
}

func TestLoadUnresolvableImportFaults(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.json")

	r := imports.NewResolver(nil)
	_, _, err := r.Load(mainPath, "does-not-exist.json")
	if err == nil {
		t.Fatal("expected an error for an unresolvable import")
	}
}
