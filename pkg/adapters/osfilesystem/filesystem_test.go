package osfilesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "test.txt")
	testData := []byte("hello world")

	if err := fs.WriteFile(testPath, testData); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(testPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "a", "b", "c", "test.txt")
	if err := fs.WriteFile(testPath, []byte("test")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := os.Stat(testPath); err != nil {
		t.Errorf("expected nested file to exist: %v", err)
	}
}

func TestFileSystem_Exists(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "test.txt")

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected false for missing file")
	}

	if err := fs.WriteFile(testPath, []byte("x")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	exists, err = fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected true for existing file")
	}
}

func TestFileSystem_Remove(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "test.txt")
	if err := fs.WriteFile(testPath, []byte("x")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := fs.Remove(testPath); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if exists, _ := fs.Exists(testPath); exists {
		t.Error("expected file to be gone")
	}
}
