package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFile_CreatesDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "cleaned.csv")
	if err := SafeWriteFile(path, []byte("a\n1\n")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "a\n1\n" {
		t.Fatalf("unexpected content %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"x": 1})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if string(b) != "{\n  \"x\": 1\n}" {
		t.Fatalf("unexpected json %q", b)
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("data/sales.csv", "", "cleaned_sales.csv"); got != filepath.Join("data", "cleaned_sales.csv") {
		t.Fatalf("unexpected default path %q", got)
	}
	if got := OutputPath("data/sales.csv", "x.csv", "ignored"); got != "x.csv" {
		t.Fatalf("explicit output not kept: %q", got)
	}
}
