package book

import (
	"errors"
	"testing"

	"github.com/LeonarddeR/ReaDaisy/internal/nav"
)

func heading(level int, title string, children ...*nav.Heading) *nav.Heading {
	return &nav.Heading{Level: level, Title: title, Children: children}
}

func TestSplitOnePerLevelOneHeading(t *testing.T) {
	model := &nav.Model{Roots: []*nav.Heading{
		heading(1, "Genesis", heading(2, "Chapter 1"), heading(2, "Chapter 2")),
		heading(1, "Exodus"),
		heading(1, "Leviticus"),
	}}

	units, err := Split(model)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(units) != 3 {
		t.Fatalf("Split() units = %d, want 3", len(units))
	}
	for i, want := range []string{"Genesis", "Exodus", "Leviticus"} {
		if units[i].Title() != want {
			t.Errorf("unit %d title = %q, want %q", i, units[i].Title(), want)
		}
		if units[i].Index != i+1 {
			t.Errorf("unit %d index = %d, want %d", i, units[i].Index, i+1)
		}
	}
	if got := len(units[0].Root.Children); got != 2 {
		t.Errorf("Genesis subtree chapters = %d, want 2 (structure must survive the split)", got)
	}
}

func TestSplitKeepsChapterlessBooks(t *testing.T) {
	// Books without nested headings are still full book units.
	model := &nav.Model{Roots: []*nav.Heading{
		heading(1, "Obadiah"),
	}}
	units, err := Split(model)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(units) != 1 || units[0].Title() != "Obadiah" {
		t.Fatalf("chapterless book should become a unit, got %d units", len(units))
	}
}

func TestSplitNoBooks(t *testing.T) {
	model := &nav.Model{Roots: []*nav.Heading{heading(2, "Orphan Chapter")}}
	_, err := Split(model)
	if !errors.Is(err, ErrNoBooksFound) {
		t.Errorf("Split() error = %v, want ErrNoBooksFound", err)
	}
}

func TestNameDisambiguatesCollisions(t *testing.T) {
	model := &nav.Model{Roots: []*nav.Heading{
		heading(1, "Psalms"),
		heading(1, "Psalms"),
		heading(1, "Proverbs"),
	}}
	units, err := Split(model)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	got := []string{units[0].DirName, units[1].DirName, units[2].DirName}
	want := []string{"Psalms", "Psalms_2", "Proverbs"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DirName[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNameAfterRenumbering(t *testing.T) {
	units := []*Unit{
		{Root: heading(1, "Psalms"), Index: 7},
		{Root: heading(1, "Psalms"), Index: 8},
	}
	Name(units)
	if units[0].DirName != "Psalms" || units[1].DirName != "Psalms_8" {
		t.Errorf("DirNames = %q, %q; want Psalms, Psalms_8", units[0].DirName, units[1].DirName)
	}
}

func TestNameEmptyTitleFallsBack(t *testing.T) {
	units := []*Unit{{Root: heading(1, "..."), Index: 3}}
	Name(units)
	if units[0].DirName != "Book 3" {
		t.Errorf("DirName = %q, want %q", units[0].DirName, "Book 3")
	}
}
