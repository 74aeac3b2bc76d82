package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	data := []byte("hello")
	if err := SafeWriteFile(path, data); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Errorf("content = %q", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestSafeWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := SafeWriteFile(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := SafeWriteFile(path, []byte("second")); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "second" {
		t.Errorf("content = %q, want second", got)
	}
}

func TestSafeWriteFileBadDir(t *testing.T) {
	err := SafeWriteFile(filepath.Join(t.TempDir(), "missing", "out.txt"), []byte("x"))
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
