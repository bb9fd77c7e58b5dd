// Package logging assembles the slog loggers used by the command line tools.
//
// Format "console" writes key=value text, "json" writes one object per line
// and "auto" picks console when the output is a terminal. Library packages
// never build loggers themselves; they accept one and default to NewNop.
package logging
