// Package daisy reads DAISY 2.02 book directories: the NCC navigation
// document (HTML) and the SMIL synchronization files that map navigation
// fragments to audio clip ranges.
//
// The parsers are deliberately lenient. DAISY production tools emit a wide
// variety of markup quality, so the NCC is parsed with the error-tolerant
// x/net/html parser and SMIL files with a non-strict XML token scan with
// charset detection. Validation beyond what parsing requires is out of
// scope; structural problems surface later as unresolved references.
package daisy
