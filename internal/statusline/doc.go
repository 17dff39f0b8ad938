// Package statusline composes the single status line the host displays.
//
// Each optional segment is a Field: it reads one value from a source,
// picks a palette color for it and renders it as text. A Composer runs the
// fields in their fixed order under a per-field timeout and joins whatever
// came back with the configured separator. A field that fails for any
// reason, including a panic, is left out; the label and model are always
// printed.
package statusline
