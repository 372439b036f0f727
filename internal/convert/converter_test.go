package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LeonarddeR/ReaDaisy/internal/book"
	"github.com/LeonarddeR/ReaDaisy/internal/nav"
	"github.com/LeonarddeR/ReaDaisy/internal/plan"
	"github.com/LeonarddeR/ReaDaisy/internal/project"
	"github.com/LeonarddeR/ReaDaisy/internal/staging"
)

func sampleUnit() *book.Unit {
	root := &nav.Heading{
		Level: 1, Title: "Genesis",
		Audio: []nav.AudioRef{{Src: "book.mp3", Start: 0, End: 2}},
		Children: []*nav.Heading{
			{Level: 2, Title: "Chapter 1", Audio: []nav.AudioRef{{Src: "book.mp3", Start: 2, End: 5}}},
		},
	}
	u := &book.Unit{Root: root, Index: 1}
	book.Name([]*book.Unit{u})
	return u
}

func sourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "book.mp3"), []byte("pretend audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestBookWritesSegmentsAndProject(t *testing.T) {
	src := sourceDir(t)
	out := t.TempDir()
	conv := New(out, false, nil)

	result, err := conv.Book(context.Background(), src, sampleUnit(), plan.Widths{Book: 2, Ordinal: 2})
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if result.Segments != 2 || result.Length != 5 {
		t.Errorf("result = %+v, want 2 segments over 5s", result)
	}

	bookDir := filepath.Join(out, "Genesis")
	for _, name := range []string{
		"01-01 - Genesis.mp3",
		"01-02 - Chapter 1.mp3",
		"Genesis.rpp",
	} {
		if _, err := os.Stat(filepath.Join(bookDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(bookDir, "Genesis.rpp"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`MARKER 2 2 "  Chapter 1" 0`, `FILE "01-02 - Chapter 1.mp3"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("project file missing %q", want)
		}
	}
}

func TestBookIdempotentOutput(t *testing.T) {
	src := sourceDir(t)
	out := t.TempDir()

	first, err := New(out, false, nil).Book(context.Background(), src, sampleUnit(), plan.Widths{Book: 2, Ordinal: 2})
	if err != nil {
		t.Fatalf("first Book() error = %v", err)
	}
	before, err := os.ReadFile(filepath.Join(first.Dir, "Genesis.rpp"))
	if err != nil {
		t.Fatal(err)
	}

	second, err := New(out, true, nil).Book(context.Background(), src, sampleUnit(), plan.Widths{Book: 2, Ordinal: 2})
	if err != nil {
		t.Fatalf("second Book() error = %v", err)
	}
	after, err := os.ReadFile(filepath.Join(second.Dir, "Genesis.rpp"))
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Errorf("re-running the conversion changed the project file")
	}
}

func TestBookRefusesExistingDirWithoutOverwrite(t *testing.T) {
	src := sourceDir(t)
	out := t.TempDir()
	if err := os.Mkdir(filepath.Join(out, "Genesis"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := New(out, false, nil).Book(context.Background(), src, sampleUnit(), plan.Widths{Book: 2, Ordinal: 2})
	if err == nil {
		t.Fatalf("Book() should fail when the target exists and overwrite is off")
	}
}

func TestBookLeavesNoPartialOutputOnFailure(t *testing.T) {
	// The source audio is missing, so the copy step fails mid-book.
	src := t.TempDir()
	out := t.TempDir()

	_, err := New(out, false, nil).Book(context.Background(), src, sampleUnit(), plan.Widths{Book: 2, Ordinal: 2})
	if err == nil {
		t.Fatalf("Book() should fail for missing source audio")
	}

	entries, readErr := os.ReadDir(out)
	if readErr != nil {
		t.Fatal(readErr)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), staging.Prefix) {
			t.Errorf("staging directory leaked: %s", entry.Name())
		} else {
			t.Errorf("partial output leaked: %s", entry.Name())
		}
	}
}

func TestBookEmptyUnit(t *testing.T) {
	u := &book.Unit{Root: &nav.Heading{Level: 1, Title: "Silent"}, Index: 1}
	book.Name([]*book.Unit{u})

	_, err := New(t.TempDir(), false, nil).Book(context.Background(), t.TempDir(), u, plan.Widths{Book: 2, Ordinal: 2})
	if !errors.Is(err, project.ErrEmptyBook) {
		t.Errorf("Book() error = %v, want ErrEmptyBook", err)
	}
}
