package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestFindDocumentsMissingDirectoryIsEmpty(t *testing.T) {
	finder := NewFinder(t.TempDir(), DefaultMaxDepth, zap.NewNop())

	files, err := finder.FindDocuments("nobody")
	if err != nil {
		t.Fatalf("expected no error for missing directory, got %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty list, got %v", files)
	}
}

func TestFindDocumentsFiltersByExtension(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "alex", "analysis.json"))
	touch(t, filepath.Join(root, "alex", "profile.yaml"))
	touch(t, filepath.Join(root, "alex", "extra.yml"))
	touch(t, filepath.Join(root, "alex", "notes.md"))
	touch(t, filepath.Join(root, "alex", "transcript.txt"))

	finder := NewFinder(root, DefaultMaxDepth, zap.NewNop())

	files, err := finder.FindDocuments("alex")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 structured-data files, got %v", files)
	}
	for _, f := range files {
		ext := filepath.Ext(f)
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			t.Fatalf("unexpected extension in results: %s", f)
		}
	}
}

func TestFindDocumentsUppercaseExtensions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "alex", "ANALYSIS.JSON"))

	finder := NewFinder(root, DefaultMaxDepth, zap.NewNop())

	files, err := finder.FindDocuments("alex")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected case-insensitive extension match, got %v", files)
	}
}

func TestFindDocumentsDepthBound(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "alex", "shallow.json"))
	touch(t, filepath.Join(root, "alex", "a", "two.json"))
	touch(t, filepath.Join(root, "alex", "a", "b", "c", "d", "too-deep.json"))

	finder := NewFinder(root, 2, zap.NewNop())

	files, err := finder.FindDocuments("alex")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected depth bound to exclude the deep file, got %v", files)
	}
	for _, f := range files {
		if filepath.Base(f) == "too-deep.json" {
			t.Fatalf("file beyond max depth leaked into results: %s", f)
		}
	}
}

func TestFindDocumentsLexicalOrder(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "alex", "02_rich.json"))
	touch(t, filepath.Join(root, "alex", "01_basic.json"))
	touch(t, filepath.Join(root, "alex", "03_extra.yaml"))

	finder := NewFinder(root, DefaultMaxDepth, zap.NewNop())

	files, err := finder.FindDocuments("alex")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"01_basic.json", "02_rich.json", "03_extra.yaml"}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), files)
	}
	for i, name := range want {
		if filepath.Base(files[i]) != name {
			t.Fatalf("expected %s at position %d, got %s", name, i, filepath.Base(files[i]))
		}
	}
}

func TestFindDocumentsPathIsFileNotDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "alex"))

	finder := NewFinder(root, DefaultMaxDepth, zap.NewNop())

	files, err := finder.FindDocuments("alex")
	if err != nil {
		t.Fatalf("expected no error when slug names a file, got %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty result, got %v", files)
	}
}
