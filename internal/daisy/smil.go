package daisy

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Clip is one audio element of a SMIL document: a time range within a
// source audio file.
type Clip struct {
	ID    string
	Src   string
	Begin float64
	End   float64
}

// Smil is one parsed SMIL 1.0 synchronization document. Clips appear in
// document order; fragments maps every element id to the index of the first
// clip at or after that element, so par and text ids resolve to the audio
// that accompanies them.
type Smil struct {
	Name         string // lowercased base filename, the key hrefs resolve against
	TotalElapsed float64
	Duration     float64
	Clips        []Clip
	fragments    map[string]int
}

// ParseSmil reads one SMIL document. The scan is token-based and
// non-strict: unknown elements are skipped, charsets are detected from the
// XML declaration, and only the pieces DAISY playback needs are retained.
func ParseSmil(name string, r io.Reader) (*Smil, error) {
	doc := &Smil{
		Name:      strings.ToLower(strings.TrimSpace(name)),
		fragments: map[string]int{},
	}

	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse smil %s: %w", name, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		attrs := attrMap(start)

		if id := attrs["id"]; id != "" {
			if _, seen := doc.fragments[id]; !seen {
				doc.fragments[id] = len(doc.Clips)
			}
		}

		switch strings.ToLower(start.Name.Local) {
		case "meta":
			if strings.EqualFold(attrs["name"], "ncc:totalElapsedTime") {
				if v, err := parseClock(attrs["content"]); err == nil {
					doc.TotalElapsed = v
				}
			}
		case "seq":
			if doc.Duration == 0 && attrs["dur"] != "" {
				if v, err := parseClock(attrs["dur"]); err == nil {
					doc.Duration = v
				}
			}
		case "audio":
			clip, err := parseAudioClip(attrs)
			if err != nil {
				return nil, fmt.Errorf("parse smil %s: %w", name, err)
			}
			doc.Clips = append(doc.Clips, clip)
		}
	}
	return doc, nil
}

// ClipsFrom returns the clips from the given fragment through the end of
// the document. An empty fragment addresses the whole document. The second
// result is false when the fragment id does not exist.
func (s *Smil) ClipsFrom(fragment string) ([]Clip, bool) {
	if fragment == "" {
		return s.Clips, true
	}
	idx, ok := s.fragments[fragment]
	if !ok {
		return nil, false
	}
	return s.Clips[idx:], true
}

func parseAudioClip(attrs map[string]string) (Clip, error) {
	src := strings.TrimSpace(attrs["src"])
	if src == "" {
		return Clip{}, fmt.Errorf("audio element %q has no src", attrs["id"])
	}
	begin, err := parseClock(attrs["clip-begin"])
	if err != nil {
		return Clip{}, fmt.Errorf("audio element %q: %w", attrs["id"], err)
	}
	end, err := parseClock(attrs["clip-end"])
	if err != nil {
		return Clip{}, fmt.Errorf("audio element %q: %w", attrs["id"], err)
	}
	return Clip{ID: attrs["id"], Src: src, Begin: begin, End: end}, nil
}

func attrMap(start xml.StartElement) map[string]string {
	attrs := make(map[string]string, len(start.Attr))
	for _, attr := range start.Attr {
		attrs[strings.ToLower(attr.Name.Local)] = attr.Value
	}
	return attrs
}
