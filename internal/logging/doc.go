// Package logging configures the application's slog loggers: a
// human-oriented console handler for terminal runs and a JSON handler for
// log files and machine consumption. Helpers produce component-tagged child
// loggers and keep attribute construction terse at call sites.
package logging
