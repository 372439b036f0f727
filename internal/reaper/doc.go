// Package reaper renders a project model to the REAPER project (RPP)
// format. Output is deterministic: the same model always renders to the
// same bytes, so re-running a conversion is byte-idempotent.
package reaper
