package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/loader"
)

func TestReadCSV(t *testing.T) {
	content := "f1,f2,label\n" + // header is skipped as unparsable
		"1.5,2.0,0\n" +
		"3.0,oops,1\n" + // malformed row is skipped
		"4.0,5.5,1\n"
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	X, y, err := loader.ReadCSV(path, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(X) != 2 || len(y) != 2 {
		t.Fatalf("got %d rows, want 2", len(X))
	}
	if X[0][0] != 1.5 || X[0][1] != 2.0 || y[0] != 0 {
		t.Fatalf("first row = %v label %d", X[0], y[0])
	}
	if X[1][0] != 4.0 || X[1][1] != 5.5 || y[1] != 1 {
		t.Fatalf("second row = %v label %d", X[1], y[1])
	}
}

func TestReadCSVLabelColumn(t *testing.T) {
	content := "1,10.0,20.0\n0,30.0,40.0\n"
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	X, y, err := loader.ReadCSV(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if y[0] != 1 || y[1] != 0 {
		t.Fatalf("labels = %v", y)
	}
	if X[0][0] != 10.0 || X[1][1] != 40.0 {
		t.Fatalf("features = %v", X)
	}
}

func TestReadCSVErrors(t *testing.T) {
	if _, _, err := loader.ReadCSV(filepath.Join(t.TempDir(), "missing.csv"), -1); err == nil {
		t.Fatal("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "junk.csv")
	if err := os.WriteFile(path, []byte("a,b,c\nx,y,z\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loader.ReadCSV(path, -1); err == nil {
		t.Fatal("expected error when no row parses")
	}
}
