package reaper

import (
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/LeonarddeR/ReaDaisy/internal/project"
)

// Extension is the file extension of a serialized project, including the
// dot.
const Extension = ".rpp"

// FileName returns the project filename for a book directory name.
func FileName(bookName string) string {
	return bookName + Extension
}

// Write renders model as an RPP document. The layout mirrors what REAPER
// itself saves: a REAPER_PROJECT block with measure-based ruler disabled
// (TIMEMODE 3, time-locked items), project-level markers, and a single
// track holding one ITEM per clip. SOFFS carries the clip's offset into
// its source file so the copied audio plays exactly the planned range.
func Write(w io.Writer, model *project.Model) error {
	var b strings.Builder

	b.WriteString("<REAPER_PROJECT 0.1 \"7.0/ReaDaisy\" 0\n")
	b.WriteString("  TIMEMODE 3\n")
	b.WriteString("  TIMELOCKMODE 1\n")
	for i, marker := range model.Markers {
		fmt.Fprintf(&b, "  MARKER %d %s %s 0\n", i+1, seconds(marker.Position), quote(marker.Label))
	}
	b.WriteString("  <TRACK\n")
	fmt.Fprintf(&b, "    NAME %s\n", quote(model.TrackName))
	for _, clip := range model.Clips {
		seg := clip.Segment
		b.WriteString("    <ITEM\n")
		fmt.Fprintf(&b, "      POSITION %s\n", seconds(clip.Position))
		fmt.Fprintf(&b, "      LENGTH %s\n", seconds(seg.Duration()))
		fmt.Fprintf(&b, "      SOFFS %s\n", seconds(seg.Start))
		fmt.Fprintf(&b, "      NAME %s\n", quote(strings.TrimSuffix(seg.OutputName, path.Ext(seg.OutputName))))
		fmt.Fprintf(&b, "      <SOURCE %s\n", sourceType(seg.OutputName))
		fmt.Fprintf(&b, "        FILE %s\n", quote(seg.OutputName))
		b.WriteString("      >\n")
		b.WriteString("    >\n")
	}
	b.WriteString("  >\n")
	b.WriteString(">\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// seconds formats a timeline value with millisecond precision and no
// trailing zeros, which keeps project files stable across runs.
func seconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func quote(s string) string {
	// RPP fields are double-quoted; embedded quotes become single quotes,
	// the convention REAPER applies when saving.
	return "\"" + strings.ReplaceAll(s, "\"", "'") + "\""
}

func sourceType(file string) string {
	switch strings.ToLower(path.Ext(file)) {
	case ".wav":
		return "WAVE"
	case ".flac":
		return "FLAC"
	case ".ogg", ".oga":
		return "VORBIS"
	default:
		// DAISY 2.02 audio is MP3 in practice.
		return "MP3"
	}
}
