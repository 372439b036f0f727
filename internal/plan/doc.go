// Package plan turns one book unit into the ordered, numbered set of audio
// segments that must exist in its output directory. Ordinals follow a
// pre-order walk of the heading tree, and output filenames are zero-padded
// so that lexicographic order equals playback order across the whole batch.
package plan
