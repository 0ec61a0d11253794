package model

import "time"

// LocalFile is a finished download present in the save directory.
type LocalFile struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time

	// Title and Artist are read from ID3 tags when present.
	Title  string
	Artist string
}
