package reaper

import (
	"strings"
	"testing"

	"github.com/LeonarddeR/ReaDaisy/internal/plan"
	"github.com/LeonarddeR/ReaDaisy/internal/project"
)

func sampleModel() *project.Model {
	return &project.Model{
		TrackName: "Genesis",
		Clips: []project.Clip{
			{
				Position: 0,
				Segment: plan.Segment{
					BookIndex: 1, Ordinal: 1,
					Source: "book.mp3", Start: 0, End: 300,
					OutputName: "01-01 - Genesis.mp3",
				},
			},
			{
				Position: 300,
				Segment: plan.Segment{
					BookIndex: 1, Ordinal: 2,
					Source: "book.mp3", Start: 300, End: 580.5,
					OutputName: "01-02 - Chapter 1.mp3",
				},
			},
		},
		Markers: []project.Marker{
			{Position: 0, Label: "Genesis"},
			{Position: 300, Label: "  Chapter 1"},
		},
		Length: 580.5,
	}
}

func TestWriteLayout(t *testing.T) {
	var out strings.Builder
	if err := Write(&out, sampleModel()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got := out.String()

	want := `<REAPER_PROJECT 0.1 "7.0/ReaDaisy" 0
  TIMEMODE 3
  TIMELOCKMODE 1
  MARKER 1 0 "Genesis" 0
  MARKER 2 300 "  Chapter 1" 0
  <TRACK
    NAME "Genesis"
    <ITEM
      POSITION 0
      LENGTH 300
      SOFFS 0
      NAME "01-01 - Genesis"
      <SOURCE MP3
        FILE "01-01 - Genesis.mp3"
      >
    >
    <ITEM
      POSITION 300
      LENGTH 280.5
      SOFFS 300
      NAME "01-02 - Chapter 1"
      <SOURCE MP3
        FILE "01-02 - Chapter 1.mp3"
      >
    >
  >
>
`
	if got != want {
		t.Errorf("Write() output mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestWriteDeterministic(t *testing.T) {
	var a, b strings.Builder
	if err := Write(&a, sampleModel()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := Write(&b, sampleModel()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if a.String() != b.String() {
		t.Errorf("two renders of the same model differ")
	}
}

func TestQuoteEscapesEmbeddedQuotes(t *testing.T) {
	if got := quote(`The "Good" News`); got != `"The 'Good' News"` {
		t.Errorf("quote() = %s", got)
	}
}

func TestSourceType(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"a.mp3", "MP3"},
		{"a.MP3", "MP3"},
		{"a.wav", "WAVE"},
		{"a.flac", "FLAC"},
		{"a.ogg", "VORBIS"},
		{"a.bin", "MP3"},
	}
	for _, tt := range tests {
		if got := sourceType(tt.file); got != tt.want {
			t.Errorf("sourceType(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestSecondsFormatting(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{300, "300"},
		{280.5, "280.5"},
		{12.345, "12.345"},
		{12.3456, "12.346"},
	}
	for _, tt := range tests {
		if got := seconds(tt.in); got != tt.want {
			t.Errorf("seconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
