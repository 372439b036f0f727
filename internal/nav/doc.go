// Package nav models the navigation hierarchy of a DAISY 2.02 talking book
// and builds it from a navigation document plus SMIL timing data.
//
// The package is deliberately ignorant of file formats. Parse consumes a
// NavigationSource (ordered heading entries) and a TimingSource (SMIL
// fragment resolution); the concrete NCC/SMIL readers live in
// internal/daisy. The resulting Model is an immutable heading tree where
// every heading carries the contiguous audio spans covering its own content
// before its first child heading.
package nav
