package textutil

import "testing"

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Genesis", "Genesis"},
		{"colon space becomes dash", "Psalms: Book One", "Psalms - Book One"},
		{"illegal characters", `First <Letter> of "John"?`, "First _Letter_ of _John__"},
		{"path separators", `a/b\c`, "a_b_c"},
		{"whitespace collapsed", "  Song   of\tSongs ", "Song of Songs"},
		{"trailing dots trimmed", "Malachi. ", "Malachi"},
		{"control characters", "Ruth\x01", "Ruth_"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeFileName(tt.title); got != tt.want {
				t.Errorf("SafeFileName(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace(" a \n b\t\tc "); got != "a b c" {
		t.Errorf("CollapseWhitespace() = %q, want %q", got, "a b c")
	}
}
