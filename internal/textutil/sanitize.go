package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer maps characters that are illegal or troublesome in file
// paths to underscores: path separators, shell metacharacters, and
// Windows-reserved punctuation.
var fileNameReplacer = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	"\"", "_",
	"/", "_",
	"\\", "_",
	"|", "_",
	"?", "_",
	"*", "_",
	"^", "_",
	"{", "_",
	"}", "_",
)

// SafeFileName derives a directory-safe name from a heading title. Titles
// are NFC-normalized and whitespace-collapsed first, then ": " becomes
// " - " (common in scripture titles such as "Psalms: Book One"), remaining
// illegal characters become underscores, and trailing dots and spaces are
// trimmed so the result is valid on Windows as well.
func SafeFileName(title string) string {
	name := CollapseWhitespace(norm.NFC.String(title))
	name = strings.ReplaceAll(name, ": ", " - ")
	name = fileNameReplacer.Replace(stripControl(name))
	return strings.TrimRight(name, ". ")
}

// CollapseWhitespace trims the string and folds internal whitespace runs
// into single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, s)
}
