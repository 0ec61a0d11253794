package dto

import (
	"strconv"
	"time"

	"github.com/handiism/netease-downloader/internal/model"
)

const (
	unknownSong  = "Unknown song"
	unknownAlbum = "Unknown album"
)

// JSONSong represents a song in detail and search responses.
type JSONSong struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Artists  []JSONArtist `json:"artists"`
	Album    *JSONAlbum   `json:"album"`
	Duration int64        `json:"duration"` // milliseconds
}

// JSONArtist represents an artist reference.
type JSONArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// JSONAlbum represents the album a song belongs to.
type JSONAlbum struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	PicURL string `json:"picUrl"`
}

// ToSongInfo converts JSONSong to a model.SongInfo.
func (js *JSONSong) ToSongInfo() *model.SongInfo {
	info := &model.SongInfo{
		Name:     js.Name,
		Album:    unknownAlbum,
		Duration: time.Duration(js.Duration) * time.Millisecond,
	}
	if js.ID != 0 {
		info.ID = strconv.FormatInt(js.ID, 10)
	}
	if info.Name == "" {
		info.Name = unknownSong
	}

	for _, ar := range js.Artists {
		if ar.Name != "" {
			info.Artists = append(info.Artists, ar.Name)
		}
	}

	if js.Album != nil {
		if js.Album.Name != "" {
			info.Album = js.Album.Name
		}
		info.CoverURL = js.Album.PicURL
	}

	return info
}
