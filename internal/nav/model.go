package nav

// AudioRef locates one contiguous span of audio belonging to a heading.
// Src is the audio filename as referenced by the SMIL document, relative to
// the book directory. Start and End are offsets in seconds with End > Start.
type AudioRef struct {
	Src   string
	Start float64
	End   float64
}

// Duration returns the span length in seconds.
func (r AudioRef) Duration() float64 {
	return r.End - r.Start
}

// Heading is one node in the navigation hierarchy. Children are owned
// exclusively by their parent and appear in document order. Audio holds the
// spans covering the heading's own content before its first child; pure
// structural containers carry an empty slice.
type Heading struct {
	ID       string
	Level    int
	Title    string
	Children []*Heading
	Audio    []AudioRef
}

// Walk visits h and every descendant in pre-order document order. It stops
// early when fn returns false.
func (h *Heading) Walk(fn func(*Heading) bool) bool {
	if h == nil {
		return true
	}
	if !fn(h) {
		return false
	}
	for _, child := range h.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// AudioRefCount returns the number of audio spans in h's subtree.
func (h *Heading) AudioRefCount() int {
	total := 0
	h.Walk(func(node *Heading) bool {
		total += len(node.Audio)
		return true
	})
	return total
}

// Model is the parsed navigation hierarchy of one DAISY book. Roots holds
// the top-level headings in document order. A Model is never mutated after
// Parse returns it.
type Model struct {
	Roots []*Heading
}

// HeadingCount returns the total number of headings in the model.
func (m *Model) HeadingCount() int {
	total := 0
	for _, root := range m.Roots {
		root.Walk(func(*Heading) bool {
			total++
			return true
		})
	}
	return total
}
