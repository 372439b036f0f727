package daisy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LeonarddeR/ReaDaisy/internal/nav"
)

// ErrNoNavigation indicates a directory without an NCC document.
var ErrNoNavigation = errors.New("no navigation document found")

// Library holds every SMIL document of one book directory and resolves
// navigation hrefs against them. It implements nav.TimingSource.
type Library struct {
	docs map[string]*Smil
}

// Resolve maps an href of the form "file.smil#fragment" to the audio clips
// from that fragment through the end of the file. Document name matching is
// case-insensitive; DAISY mastering tools disagree about filename casing.
func (l *Library) Resolve(href string) ([]nav.AudioRef, bool) {
	name, fragment, _ := strings.Cut(strings.TrimSpace(href), "#")
	doc, ok := l.docs[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	clips, ok := doc.ClipsFrom(fragment)
	if !ok {
		return nil, false
	}
	refs := make([]nav.AudioRef, 0, len(clips))
	for _, clip := range clips {
		refs = append(refs, nav.AudioRef{Src: clip.Src, Start: clip.Begin, End: clip.End})
	}
	return refs, true
}

// Documents returns the number of loaded SMIL documents.
func (l *Library) Documents() int { return len(l.docs) }

// Book is one loaded DAISY 2.02 book directory: its navigation document
// and SMIL library, ready for nav.Parse.
type Book struct {
	Dir     string
	NCC     *NCC
	Library *Library
}

// Load reads the book at dir: locates the NCC document (any casing of
// ncc.html or ncc.htm) and parses every SMIL file alongside it.
func Load(dir string) (*Book, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read book directory: %w", err)
	}

	var nccName string
	lib := &Library{docs: map[string]*Smil{}}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		lower := strings.ToLower(name)
		switch {
		case lower == "ncc.html" || lower == "ncc.htm":
			nccName = name
		case strings.HasSuffix(lower, ".smil"):
			doc, err := parseSmilFile(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			lib.docs[lower] = doc
		}
	}
	if nccName == "" {
		return nil, fmt.Errorf("%w in %s", ErrNoNavigation, dir)
	}

	f, err := os.Open(filepath.Join(dir, nccName))
	if err != nil {
		return nil, fmt.Errorf("open navigation document: %w", err)
	}
	defer f.Close()
	ncc, err := ParseNCC(f)
	if err != nil {
		return nil, err
	}

	return &Book{Dir: dir, NCC: ncc, Library: lib}, nil
}

func parseSmilFile(path string) (*Smil, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open smil: %w", err)
	}
	defer f.Close()
	return ParseSmil(filepath.Base(path), f)
}
