// Package convert materializes one book unit into its output directory:
// the renamed audio segment copies and the project file, staged first and
// committed with a single rename.
package convert
