package audio

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// ParsePlaylistFormat maps "m3u" or "pls" to a PlaylistFormat.
func ParsePlaylistFormat(s string) (PlaylistFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m3u":
		return FormatM3U, true
	case "pls":
		return FormatPLS, true
	default:
		return FormatM3U, false
	}
}

// Extension returns the file extension including the dot.
func (f PlaylistFormat) Extension() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// PlaylistEntry is one file listed in a playlist.
type PlaylistEntry struct {
	// Path of the audio file. Only the base name is written.
	Path string

	// Title shown by players. Defaults to the file name without extension.
	Title string

	// Duration of the track. Zero when unknown.
	Duration time.Duration
}

func (e PlaylistEntry) title() string {
	if e.Title != "" {
		return e.Title
	}
	base := filepath.Base(e.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (e PlaylistEntry) seconds() int {
	if e.Duration <= 0 {
		return -1
	}
	return int(e.Duration.Seconds())
}

// PlaylistCreator generates playlist files for a batch of downloads.
//
// Paths in the playlist are relative (just the filename), assuming the
// playlist file is written into the same directory as the tracks.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.Create(entries)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:215,Artist - Song Title
//	// song.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the playlist format.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// Create renders the playlist content.
func (p *PlaylistCreator) Create(entries []PlaylistEntry) string {
	if p.format == FormatPLS {
		return p.createPLS(entries)
	}
	return p.createM3U(entries)
}

func (p *PlaylistCreator) createM3U(entries []PlaylistEntry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range entries {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", e.seconds(), e.title()))
		}
		sb.WriteString(filepath.Base(e.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates an INI-style PLS playlist:
//
//	[playlist]
//	File1=song.mp3
//	Title1=Song
//	Length1=215
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(entries []PlaylistEntry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range entries {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.Base(e.Path)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, e.title()))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, e.seconds()))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(entries)))
	sb.WriteString("Version=2\n")

	return sb.String()
}
