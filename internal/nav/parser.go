package nav

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedNavigation indicates the navigation document is missing
	// required structure (no heading entries, bad levels, empty titles).
	ErrMalformedNavigation = errors.New("malformed navigation document")

	// ErrUnresolvedReference indicates a heading's SMIL reference could not
	// be located in any SMIL document of the book.
	ErrUnresolvedReference = errors.New("unresolved SMIL reference")
)

// Entry is one ordered heading entry from a navigation document.
type Entry struct {
	ID    string
	Level int
	Title string
	Href  string // SMIL reference, e.g. "dtb0003.smil#rgn_0007"
}

// NavigationSource yields the ordered heading entries of a navigation
// document.
type NavigationSource interface {
	Entries() []Entry
}

// TimingSource resolves a SMIL reference to audio clips. Resolve returns
// one span per SMIL audio clip, from the referenced fragment through the
// end of the fragment's SMIL document, in document order. The second result
// is false when the reference cannot be located.
type TimingSource interface {
	Resolve(href string) ([]AudioRef, bool)
}

// Parse builds a Model from the ordered entries of src, resolving each
// entry's SMIL reference through timing.
//
// Nesting is reconstructed from level numbers: an entry of level L becomes a
// child of the nearest preceding entry with a smaller level. Level jumps
// greater than one are accepted as direct parent-child. A heading's own
// audio is the region from its fragment up to the next entry's fragment
// when both live in the same SMIL document, otherwise through the end of
// its document.
func Parse(src NavigationSource, timing TimingSource) (*Model, error) {
	entries := src.Entries()
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no heading entries", ErrMalformedNavigation)
	}

	headings := make([]*Heading, len(entries))
	for i, entry := range entries {
		if entry.Level < 1 {
			return nil, fmt.Errorf("%w: entry %q has level %d", ErrMalformedNavigation, entry.ID, entry.Level)
		}
		if strings.TrimSpace(entry.Title) == "" {
			return nil, fmt.Errorf("%w: entry %q has an empty title", ErrMalformedNavigation, entry.ID)
		}
		audio, err := resolveEntry(timing, entries, i)
		if err != nil {
			return nil, err
		}
		headings[i] = &Heading{
			ID:    entry.ID,
			Level: entry.Level,
			Title: strings.TrimSpace(entry.Title),
			Audio: audio,
		}
	}

	model := &Model{}
	var stack []*Heading
	for _, h := range headings {
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			model.Roots = append(model.Roots, h)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, h)
		}
		stack = append(stack, h)
	}
	return model, nil
}

// resolveEntry computes the audio spans owned by entry i itself. The timing
// source yields spans from the fragment through the end of its SMIL
// document; when the following entry resolves into the same document its
// spans are a suffix of ours and are trimmed off, which stops a parent's
// own audio exactly at its first child.
func resolveEntry(timing TimingSource, entries []Entry, i int) ([]AudioRef, error) {
	entry := entries[i]
	if strings.TrimSpace(entry.Href) == "" {
		// Structural container with no synchronized audio of its own.
		return nil, nil
	}
	spans, ok := timing.Resolve(entry.Href)
	if !ok {
		return nil, fmt.Errorf("%w: heading %q points at %q", ErrUnresolvedReference, entry.ID, entry.Href)
	}

	if i+1 < len(entries) && sameDocument(entry.Href, entries[i+1].Href) {
		next, ok := timing.Resolve(entries[i+1].Href)
		if !ok {
			return nil, fmt.Errorf("%w: heading %q points at %q", ErrUnresolvedReference, entries[i+1].ID, entries[i+1].Href)
		}
		if len(next) <= len(spans) {
			spans = spans[:len(spans)-len(next)]
		}
	}

	return mergeContiguous(spans), nil
}

// mergeContiguous folds adjacent clips that share a source file and touch on
// the timeline into single spans. Clip boundaries in DAISY books carry
// millisecond precision, so a small tolerance absorbs rounding.
func mergeContiguous(clips []AudioRef) []AudioRef {
	const tolerance = 0.001

	var out []AudioRef
	for _, clip := range clips {
		if clip.End <= clip.Start {
			continue
		}
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.Src == clip.Src && clip.Start-last.End <= tolerance && clip.Start >= last.Start {
				if clip.End > last.End {
					last.End = clip.End
				}
				continue
			}
		}
		out = append(out, clip)
	}
	return out
}

func sameDocument(a, b string) bool {
	return documentOf(a) != "" && documentOf(a) == documentOf(b)
}

func documentOf(href string) string {
	doc, _, _ := strings.Cut(href, "#")
	return strings.ToLower(strings.TrimSpace(doc))
}
