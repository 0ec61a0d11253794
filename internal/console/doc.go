// Package console renders downloader output for a line-oriented terminal:
// styled status events, the in-place transfer progress line, tables and
// yes/no or multi-choice prompts.
package console
