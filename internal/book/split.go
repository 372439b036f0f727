package book

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/LeonarddeR/ReaDaisy/internal/nav"
	"github.com/LeonarddeR/ReaDaisy/internal/textutil"
)

// ErrNoBooksFound indicates a navigation model with zero level-1 headings.
var ErrNoBooksFound = errors.New("no level-1 headings found")

// Unit is one independent book derived from a level-1 heading with its full
// subtree intact. Index is the 1-based position among level-1 headings; for
// multi-directory batches the caller may renumber it before any output is
// derived. DirName is the sanitized directory name the unit's output lives
// under.
type Unit struct {
	Root    *nav.Heading
	Index   int
	DirName string
}

// Title returns the unit's heading title.
func (u *Unit) Title() string { return u.Root.Title }

// AudioRefCount returns the number of audio spans in the unit's subtree.
func (u *Unit) AudioRefCount() int { return u.Root.AudioRefCount() }

// Split partitions model at its level-1 headings, in document order. Each
// resulting unit keeps the heading's nested structure. Sanitized-name
// collisions between units are disambiguated by suffixing the 1-based book
// index.
func Split(model *nav.Model) ([]*Unit, error) {
	var units []*Unit
	for _, root := range model.Roots {
		if root.Level != 1 {
			continue
		}
		units = append(units, &Unit{Root: root})
	}
	if len(units) == 0 {
		return nil, ErrNoBooksFound
	}
	for i, unit := range units {
		unit.Index = i + 1
	}
	Name(units)
	return units, nil
}

// Name assigns each unit's DirName from its sanitized title, resolving
// collisions by appending the unit index. It may be re-applied after a
// batch renumbers unit indices across multiple source directories.
func Name(units []*Unit) {
	seen := make(map[string]int, len(units))
	for _, unit := range units {
		name := textutil.SafeFileName(unit.Root.Title)
		if name == "" {
			name = "Book " + strconv.Itoa(unit.Index)
		}
		seen[name]++
		if seen[name] > 1 {
			name = fmt.Sprintf("%s_%d", name, unit.Index)
		}
		unit.DirName = name
	}
}
