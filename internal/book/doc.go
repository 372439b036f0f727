// Package book partitions a navigation model at its level-1 headings into
// independent book units, each carrying a stable index and a
// directory-safe name derived from its title.
package book
