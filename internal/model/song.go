package model

import (
	"strings"
	"time"
)

// SongInfo is the metadata of a track as reported by the remote service.
type SongInfo struct {
	// ID is the track identifier.
	ID string

	// Name is the track title.
	Name string

	// Artists lists the performing artists in service order.
	Artists []string

	// Album is the album title.
	Album string

	// CoverURL is the album picture URL. Empty when the service has none.
	CoverURL string

	// Duration is the track length.
	Duration time.Duration
}

// Artist returns the artists joined with ", ".
func (s *SongInfo) Artist() string {
	return strings.Join(s.Artists, ", ")
}

// Title returns "Artist - Name", or just the name when no artist is known.
func (s *SongInfo) Title() string {
	if artist := s.Artist(); artist != "" {
		return artist + " - " + s.Name
	}
	return s.Name
}

// Ref converts the song into a TrackRef without a filename override.
func (s *SongInfo) Ref() TrackRef {
	return TrackRef{ID: s.ID}
}
