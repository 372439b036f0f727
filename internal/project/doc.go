// Package project builds the abstract track/marker model for one book
// unit: a single track whose clips are the planned audio segments laid out
// back-to-back, plus one labeled marker per heading boundary. The model is
// format-agnostic; internal/reaper renders it to an RPP file.
package project
