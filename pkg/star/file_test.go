package star_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shapestone/shape-star/pkg/star"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entry.str")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestParseFile(t *testing.T) {
	doc, err := star.ParseFile(writeFile(t, entry), star.DefaultReaderOptions())
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if doc.Name != "15000" || len(doc.Saveframes) != 2 {
		t.Errorf("ParseFile() = %s with %d saveframes", doc.Name, len(doc.Saveframes))
	}
}

func TestParseFile_Errors(t *testing.T) {
	if _, err := star.ParseFile(filepath.Join(t.TempDir(), "missing.str"), star.DefaultReaderOptions()); err == nil {
		t.Error("ParseFile() should fail for a missing file")
	}

	path := writeFile(t, "data_x\nsave_s\n_A.b\nsave_\n")
	if _, err := star.ParseFile(path, star.DefaultReaderOptions()); !errors.Is(err, star.ErrValueExpected) {
		t.Errorf("ParseFile() error = %v, want ErrValueExpected", err)
	}
}

func TestValidateFile(t *testing.T) {
	opts := star.DefaultReaderOptions()
	if err := star.ValidateFile(writeFile(t, entry), opts); err != nil {
		t.Errorf("ValidateFile() = %v", err)
	}
	if err := star.ValidateFile(writeFile(t, ""), opts); err != nil {
		t.Errorf("ValidateFile(empty) = %v", err)
	}
	if err := star.ValidateFile(writeFile(t, "data_x\n_A.b 1\n"), opts); !errors.Is(err, star.ErrInvalidToken) {
		t.Errorf("ValidateFile() = %v, want ErrInvalidToken", err)
	}
}
