package plan

import (
	"fmt"
	"path"
	"strconv"

	"github.com/LeonarddeR/ReaDaisy/internal/book"
	"github.com/LeonarddeR/ReaDaisy/internal/nav"
	"github.com/LeonarddeR/ReaDaisy/internal/textutil"
)

// Segment is one audio span scheduled for extraction into a book directory.
// Ordinal is dense and 1-based within the book. OutputName is the renamed
// file the span's source audio is copied to.
type Segment struct {
	BookIndex  int
	Ordinal    int
	Source     string // source filename, relative to the book input directory
	Start      float64
	End        float64
	Heading    *nav.Heading
	OutputName string
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 { return s.End - s.Start }

// Widths carries the zero-pad widths shared by every book in a batch so
// that filenames sort identically across books.
type Widths struct {
	Book    int
	Ordinal int
}

// BatchWidths computes pad widths covering the highest book index and the
// largest per-book audio span count among units. Both are at least two
// digits, matching the customary "01" style of DAISY file sets.
func BatchWidths(units []*book.Unit) Widths {
	maxIndex, maxRefs := 1, 1
	for _, unit := range units {
		if unit.Index > maxIndex {
			maxIndex = unit.Index
		}
		if n := unit.AudioRefCount(); n > maxRefs {
			maxRefs = n
		}
	}
	return Widths{
		Book:    max(2, len(strconv.Itoa(maxIndex))),
		Ordinal: max(2, len(strconv.Itoa(maxRefs))),
	}
}

// Build computes the ordered segments of unit. The walk is pre-order: a
// heading's own spans come before those of its children, children in
// document order. A heading with several spans (content crossing an audio
// file boundary) yields that many consecutive segments.
func Build(unit *book.Unit, widths Widths) []Segment {
	var segments []Segment
	unit.Root.Walk(func(h *nav.Heading) bool {
		for _, ref := range h.Audio {
			ordinal := len(segments) + 1
			segments = append(segments, Segment{
				BookIndex:  unit.Index,
				Ordinal:    ordinal,
				Source:     ref.Src,
				Start:      ref.Start,
				End:        ref.End,
				Heading:    h,
				OutputName: outputName(unit.Index, ordinal, h.Title, ref.Src, widths),
			})
		}
		return true
	})
	return segments
}

func outputName(bookIndex, ordinal int, title, source string, w Widths) string {
	label := textutil.SafeFileName(title)
	ext := path.Ext(source)
	if label == "" {
		return fmt.Sprintf("%0*d-%0*d%s", w.Book, bookIndex, w.Ordinal, ordinal, ext)
	}
	return fmt.Sprintf("%0*d-%0*d - %s%s", w.Book, bookIndex, w.Ordinal, ordinal, label, ext)
}
