// Package ledger persists conversion run history in SQLite: one row per
// run and one per converted book, shown by the history command. The
// database is an audit trail, not pipeline state; conversions behave the
// same with the ledger disabled.
//
// Schema changes bump schemaVersion; the database is disposable and the
// store recreates it on version mismatch.
package ledger
