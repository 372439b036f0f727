package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LeonarddeR/ReaDaisy/internal/book"
	"github.com/LeonarddeR/ReaDaisy/internal/nav"
	"github.com/LeonarddeR/ReaDaisy/internal/plan"
)

// ErrEmptyBook indicates a book unit that yields zero audio segments, for
// which no project can be built.
var ErrEmptyBook = errors.New("book contains no audio segments")

// Clip is one audio item on the track. Position is the timeline start in
// seconds, equal to the summed durations of all preceding clips.
type Clip struct {
	Segment  plan.Segment
	Position float64
}

// Marker is a labeled timeline position corresponding to a heading
// boundary. Labels are indented two spaces per nesting level below the
// book heading.
type Marker struct {
	Position float64
	Label    string
}

// Model is the complete project layout for one book: a single track named
// after the book, gapless clips in ordinal order, and markers in pre-order
// heading order with non-decreasing positions.
type Model struct {
	TrackName string
	Clips     []Clip
	Markers   []Marker
	Length    float64
}

// Build lays out the segments of unit on a single timeline and derives one
// marker per heading that has audio anywhere in its subtree. Headings whose
// subtree carries no audio produce no timeline event. Returns ErrEmptyBook
// when segments is empty.
func Build(unit *book.Unit, segments []plan.Segment) (*Model, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyBook, unit.Title())
	}

	model := &Model{TrackName: unit.DirName}

	// Clips are concatenated with no gaps; the first segment of each
	// heading keyed here anchors that heading's marker.
	firstPosition := make(map[*nav.Heading]float64, len(segments))
	offset := 0.0
	for _, seg := range segments {
		if _, seen := firstPosition[seg.Heading]; !seen {
			firstPosition[seg.Heading] = offset
		}
		model.Clips = append(model.Clips, Clip{Segment: seg, Position: offset})
		offset += seg.Duration()
	}
	model.Length = offset

	appendMarkers(model, unit.Root, 0, firstPosition)
	return model, nil
}

// appendMarkers walks the heading tree in pre-order. A heading's marker
// sits at the timeline start of the first segment descending from it; its
// own audio wins over any descendant's.
func appendMarkers(model *Model, h *nav.Heading, depth int, firstPosition map[*nav.Heading]float64) {
	if pos, ok := subtreePosition(h, firstPosition); ok {
		model.Markers = append(model.Markers, Marker{
			Position: pos,
			Label:    strings.Repeat("  ", depth) + h.Title,
		})
	}
	for _, child := range h.Children {
		appendMarkers(model, child, depth+1, firstPosition)
	}
}

func subtreePosition(h *nav.Heading, firstPosition map[*nav.Heading]float64) (float64, bool) {
	if pos, ok := firstPosition[h]; ok {
		return pos, true
	}
	for _, child := range h.Children {
		if pos, ok := subtreePosition(child, firstPosition); ok {
			return pos, true
		}
	}
	return 0, false
}
