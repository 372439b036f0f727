// Package batch discovers DAISY book directories under an input root and
// converts every book they contain into the shared output root. Book
// numbering and name padding are computed across the whole batch so the
// output sorts in playback order, and an output-root lock keeps concurrent
// runs from interleaving writes.
package batch
