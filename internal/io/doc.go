// Package ioutils provides file system and image utilities.
//
// This package contains functions for:
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation and existence checks
//   - Listing finished downloads and cleaning stale *.tmp files
//   - Cover art resizing and JPEG conversion
//   - Free disk space lookups
//
// # File Operations
//
//	err := ioutils.EnsureDir("downloads")
//	files, err := ioutils.ListAudioFiles("downloads")
//	removed, err := ioutils.CleanTempFiles("downloads")
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Cover Art
//
//	jpeg, err := ioutils.PrepareCover(pngData, 500)
package ioutils
